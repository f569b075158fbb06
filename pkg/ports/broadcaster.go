package ports

import (
	"context"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

// Broadcaster publishes conversation events to interested subscribers
// (SSE streams, pub/sub channels). Publish must not block on slow consumers.
type Broadcaster interface {
	Publish(ctx context.Context, conversationID string, event domain.Event) error
}

// NopBroadcaster discards every event. Useful for tests and CLI sessions.
type NopBroadcaster struct{}

func (NopBroadcaster) Publish(context.Context, string, domain.Event) error { return nil }

// MultiBroadcaster fans a publish out to several broadcasters. All of them
// are attempted; the first error is returned.
type MultiBroadcaster []Broadcaster

func (m MultiBroadcaster) Publish(ctx context.Context, conversationID string, event domain.Event) error {
	var first error
	for _, b := range m {
		if err := b.Publish(ctx, conversationID, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
