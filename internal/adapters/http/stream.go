package http

import (
	"context"
	"log/slog"
	"sync"

	"github.com/deskhand-io/deskhand/internal/logging"
	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

// StreamManager fans conversation events out to SSE subscribers. It
// implements ports.Broadcaster so the service can publish directly into it.
// Slow subscribers have events dropped rather than blocking a turn.
type StreamManager struct {
	mu     sync.RWMutex
	subs   map[string]map[chan domain.Event]struct{}
	logger *slog.Logger
}

// NewStreamManager creates an empty stream manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subs:   make(map[string]map[chan domain.Event]struct{}),
		logger: logger,
	}
}

// Publish delivers the event to every subscriber of the conversation.
func (m *StreamManager) Publish(_ context.Context, conversationID string, event domain.Event) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for ch := range m.subs[conversationID] {
		select {
		case ch <- event:
		default:
			m.logger.Warn("dropping event for slow subscriber",
				"conversation_id", conversationID,
				"event", event.Type,
			)
		}
	}
	return nil
}

// Subscribe registers a new subscriber for the conversation. The returned
// cancel function removes the subscription and closes the channel.
func (m *StreamManager) Subscribe(conversationID string) (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 16)

	m.mu.Lock()
	if m.subs[conversationID] == nil {
		m.subs[conversationID] = make(map[chan domain.Event]struct{})
	}
	m.subs[conversationID][ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[conversationID], ch)
			if len(m.subs[conversationID]) == 0 {
				delete(m.subs, conversationID)
			}
			m.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// SubscriberCount reports active subscribers for a conversation.
func (m *StreamManager) SubscriberCount(conversationID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[conversationID])
}

var _ ports.Broadcaster = (*StreamManager)(nil)
