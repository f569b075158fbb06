// Package memory provides in-process store implementations. They back tests,
// the interactive chat command, and single-node deployments that do not need
// Redis or SQLite.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

// ConversationStore keeps conversation snapshots in a map.
type ConversationStore struct {
	mu    sync.RWMutex
	items map[string]*domain.Conversation
}

// NewConversationStore creates an empty in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{items: make(map[string]*domain.Conversation)}
}

func (s *ConversationStore) Save(_ context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[conv.ID] = conv.Clone()
	return nil
}

func (s *ConversationStore) Load(_ context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.items[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return conv.Clone(), nil
}

func (s *ConversationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *ConversationStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// TicketStore keeps tickets in a map.
type TicketStore struct {
	mu    sync.RWMutex
	items map[string]*domain.Ticket
}

// NewTicketStore creates an empty in-memory ticket store.
func NewTicketStore() *TicketStore {
	return &TicketStore{items: make(map[string]*domain.Ticket)}
}

func (s *TicketStore) Save(_ context.Context, t *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.items[t.ID] = &cp
	return nil
}

func (s *TicketStore) Get(_ context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.items[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TicketStore) List(_ context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Ticket
	for _, t := range s.items {
		if matches(t, filter) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *TicketStore) Count(ctx context.Context, filter ports.TicketFilter) (int, error) {
	filter.Limit = 0
	list, err := s.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (s *TicketStore) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.Status = status
	return nil
}

func (s *TicketStore) Close(ctx context.Context, id string) error {
	return s.UpdateStatus(ctx, id, domain.TicketClosed)
}

func matches(t *domain.Ticket, filter ports.TicketFilter) bool {
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	if filter.Category != "" && t.Category != filter.Category {
		return false
	}
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

var (
	_ ports.ConversationStore = (*ConversationStore)(nil)
	_ ports.TicketStore       = (*TicketStore)(nil)
)
