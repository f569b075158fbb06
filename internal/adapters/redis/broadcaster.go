package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/deskhand-io/deskhand/internal/logging"
	"github.com/deskhand-io/deskhand/pkg/domain"
)

// Broadcaster publishes conversation events over Redis pub/sub so that SSE
// streams on other replicas can observe them.
type Broadcaster struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

// NewBroadcaster creates a pub/sub broadcaster on an existing client.
func NewBroadcaster(client *backend.Client, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Broadcaster{
		client: client,
		prefix: "deskhand:events:",
		logger: logger,
	}
}

func (b *Broadcaster) channel(conversationID string) string {
	return b.prefix + conversationID
}

// Publish sends the event to the conversation's channel.
func (b *Broadcaster) Publish(ctx context.Context, conversationID string, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel(conversationID), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe streams events for a conversation until ctx is canceled. Malformed
// payloads are logged and skipped.
func (b *Broadcaster) Subscribe(ctx context.Context, conversationID string) (<-chan domain.Event, error) {
	sub := b.client.Subscribe(ctx, b.channel(conversationID))
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan domain.Event, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn("dropping malformed event payload",
						"conversation_id", conversationID,
						"err", err,
					)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
