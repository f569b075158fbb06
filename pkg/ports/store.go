package ports

import (
	"context"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

// ConversationStore defines the interface for persisting conversation
// snapshots. It enables durable sessions that survive restarts.
type ConversationStore interface {
	// Save persists the conversation under its ID.
	Save(ctx context.Context, conv *domain.Conversation) error

	// Load retrieves a conversation by ID.
	// Returns domain.ErrConversationNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Conversation, error)

	// Delete removes the conversation.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored conversations.
	List(ctx context.Context) ([]string, error)
}

// TicketFilter constrains ticket list queries.
type TicketFilter struct {
	Status   *domain.TicketStatus
	Category domain.Category
	Query    string // text search on title and description
	Limit    int    // 0 = no limit
}

// TicketStore is the persistence interface for support tickets.
type TicketStore interface {
	// Save creates or updates a ticket.
	Save(ctx context.Context, t *domain.Ticket) error
	// Get retrieves a ticket by ID.
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	// List returns tickets matching the filter, newest first.
	List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error)
	// Count returns the number of tickets matching the filter.
	Count(ctx context.Context, filter TicketFilter) (int, error)
	// UpdateStatus changes a ticket's status.
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	// Close marks a ticket as closed.
	Close(ctx context.Context, id string) error
}
