// Package service orchestrates the conversation lifecycle around the pure
// engine: per-conversation serialization, persistence, event broadcasting,
// and automatic ticket creation once a conversation completes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/deskhand-io/deskhand/internal/engine"
	"github.com/deskhand-io/deskhand/internal/logging"
	"github.com/deskhand-io/deskhand/internal/session"
	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

// Service wires the engine to its collaborators.
type Service struct {
	engine        *engine.Engine
	conversations ports.ConversationStore
	tickets       ports.TicketStore
	broadcaster   ports.Broadcaster
	sessions      *session.Manager
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
}

// Option configures the Service.
type Option func(*Service)

// WithBroadcaster sets the event broadcaster (default: discard).
func WithBroadcaster(b ports.Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

// WithSessionManager overrides the per-conversation lock manager.
func WithSessionManager(m *session.Manager) Option {
	return func(s *Service) { s.sessions = m }
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) { s.hooks = hooks }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the timestamp source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the ID source (tests).
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// New creates a Service.
func New(eng *engine.Engine, conversations ports.ConversationStore, tickets ports.TicketStore, opts ...Option) *Service {
	s := &Service{
		engine:        eng,
		conversations: conversations,
		tickets:       tickets,
		broadcaster:   ports.NopBroadcaster{},
		sessions:      session.NewManager(),
		logger:        logging.NewNop(),
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartConversation creates and persists an empty conversation at the
// greeting step.
func (s *Service) StartConversation(ctx context.Context) (*domain.Conversation, error) {
	conv := domain.NewConversation(s.newID(), s.now())
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("start conversation: %w", err)
	}
	s.logger.Info("conversation started", "conversation_id", conv.ID)
	return conv, nil
}

// GetConversation loads a conversation by ID.
func (s *Service) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.conversations.Load(ctx, id)
}

// HandleUserMessage processes one turn for the given conversation. Turns for
// the same conversation are serialized; the engine itself stays pure.
func (s *Service) HandleUserMessage(ctx context.Context, conversationID, content string) (*domain.TurnResult, error) {
	var result *domain.TurnResult

	err := s.sessions.WithLock(ctx, conversationID, func(ctx context.Context) error {
		conv, err := s.conversations.Load(ctx, conversationID)
		if err != nil {
			return err
		}

		s.publish(ctx, conversationID, domain.Event{
			Type:           domain.EventTyping,
			ConversationID: conversationID,
			Timestamp:      s.now(),
		})

		result = s.engine.ProcessTurn(content, conv)
		updated := result.Conversation

		if s.shouldCreateTicket(result) {
			ticket, err := s.createTicket(ctx, updated)
			if err != nil {
				// The conversation is still complete; ticket creation can be
				// retried by support tooling. Log and carry on.
				s.logger.Error("ticket creation failed",
					"conversation_id", conversationID,
					"err", err,
				)
			} else {
				updated.CreatedTicketID = ticket.ID
				s.publish(ctx, conversationID, domain.Event{
					Type:           domain.EventTicketCreated,
					ConversationID: conversationID,
					Timestamp:      s.now(),
					Ticket:         ticket,
				})
				if s.hooks.OnTicketCreated != nil {
					s.hooks.OnTicketCreated(ctx, &domain.TicketEvent{
						TicketID:       ticket.ID,
						ConversationID: conversationID,
						Category:       ticket.Category,
					})
				}
			}
		}

		if err := s.conversations.Save(ctx, updated); err != nil {
			return fmt.Errorf("save conversation: %w", err)
		}

		if n := len(updated.Messages); n > 0 {
			last := updated.Messages[n-1]
			s.publish(ctx, conversationID, domain.Event{
				Type:           domain.EventMessage,
				ConversationID: conversationID,
				Timestamp:      s.now(),
				Message:        &last,
			})
		}

		if s.hooks.OnTurnProcessed != nil {
			s.hooks.OnTurnProcessed(ctx, &domain.TurnEvent{
				ConversationID: conversationID,
				Step:           conv.CurrentStep,
				NextStep:       updated.CurrentStep,
				ResponseType:   result.Response.Type,
				Category:       result.SuggestedCategory,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetTicket loads a ticket by ID.
func (s *Service) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.Get(ctx, id)
}

// ListTickets returns tickets matching the filter.
func (s *Service) ListTickets(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	return s.tickets.List(ctx, filter)
}

// responseMeta is the typed view of the engine's response metadata.
type responseMeta struct {
	ShouldCreateTicket bool `mapstructure:"should_create_ticket"`
}

// shouldCreateTicket reports whether this turn finished the conversation and
// no ticket exists for it yet.
func (s *Service) shouldCreateTicket(result *domain.TurnResult) bool {
	conv := result.Conversation
	if !conv.IsComplete || conv.CreatedTicketID != "" {
		return false
	}
	var meta responseMeta
	if err := mapstructure.Decode(result.Response.Metadata, &meta); err != nil {
		return false
	}
	return meta.ShouldCreateTicket
}

func (s *Service) createTicket(ctx context.Context, conv *domain.Conversation) (*domain.Ticket, error) {
	ticket := domain.TicketFromConversation(conv, s.newID(), s.now())
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, fmt.Errorf("save ticket: %w", err)
	}
	s.logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"conversation_id", conv.ID,
		"category", ticket.Category,
	)
	return ticket, nil
}

func (s *Service) publish(ctx context.Context, conversationID string, event domain.Event) {
	if err := s.broadcaster.Publish(ctx, conversationID, event); err != nil {
		s.logger.Warn("event broadcast failed",
			"conversation_id", conversationID,
			"event", event.Type,
			"err", err,
		)
	}
}
