package deskhand

import (
	"context"
	"log/slog"

	"github.com/deskhand-io/deskhand/internal/adapters/memory"
	"github.com/deskhand-io/deskhand/internal/engine"
	"github.com/deskhand-io/deskhand/internal/service"
	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

// Desk is the high-level entry point for embedding deskhand as a library.
// It wraps the conversation service with in-memory defaults so a single
// constructor call yields a working support desk.
type Desk struct {
	svc *service.Service
}

// Option configures a Desk.
type Option func(*options)

type options struct {
	conversations ports.ConversationStore
	tickets       ports.TicketStore
	broadcaster   ports.Broadcaster
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

// WithConversationStore replaces the in-memory conversation store.
func WithConversationStore(store ports.ConversationStore) Option {
	return func(o *options) { o.conversations = store }
}

// WithTicketStore replaces the in-memory ticket store.
func WithTicketStore(store ports.TicketStore) Option {
	return func(o *options) { o.tickets = store }
}

// WithBroadcaster sets the event broadcaster.
func WithBroadcaster(b ports.Broadcaster) Option {
	return func(o *options) { o.broadcaster = b }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) { o.hooks = hooks }
}

// WithLogger sets a structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Desk with in-memory persistence unless overridden.
func New(opts ...Option) *Desk {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.conversations == nil {
		o.conversations = memory.NewConversationStore()
	}
	if o.tickets == nil {
		o.tickets = memory.NewTicketStore()
	}

	var svcOpts []service.Option
	if o.broadcaster != nil {
		svcOpts = append(svcOpts, service.WithBroadcaster(o.broadcaster))
	}
	if o.logger != nil {
		svcOpts = append(svcOpts, service.WithLogger(o.logger))
	}
	svcOpts = append(svcOpts, service.WithLifecycleHooks(o.hooks))

	return &Desk{
		svc: service.New(engine.New(), o.conversations, o.tickets, svcOpts...),
	}
}

// StartConversation creates a new conversation at the greeting step.
func (d *Desk) StartConversation(ctx context.Context) (*domain.Conversation, error) {
	return d.svc.StartConversation(ctx)
}

// GetConversation loads a conversation by ID.
func (d *Desk) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return d.svc.GetConversation(ctx, id)
}

// HandleUserMessage processes one user turn and returns the result.
func (d *Desk) HandleUserMessage(ctx context.Context, conversationID, content string) (*domain.TurnResult, error) {
	return d.svc.HandleUserMessage(ctx, conversationID, content)
}

// GetTicket loads a ticket by ID.
func (d *Desk) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return d.svc.GetTicket(ctx, id)
}

// ListTickets returns tickets matching the filter.
func (d *Desk) ListTickets(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	return d.svc.ListTickets(ctx, filter)
}
