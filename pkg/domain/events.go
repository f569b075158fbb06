package domain

import (
	"context"
	"time"
)

// EventType defines the category of a broadcast event.
type EventType string

const (
	// EventTyping signals that the assistant is composing a reply.
	EventTyping EventType = "typing"
	// EventMessage carries a new transcript message.
	EventMessage EventType = "conversation_message"
	// EventTicketCreated signals that a ticket was created from the
	// conversation.
	EventTicketCreated EventType = "ticket_created"
)

// Event is a single broadcast payload for subscribers of a conversation.
type Event struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
	Message        *Message  `json:"message,omitempty"`
	Ticket         *Ticket   `json:"ticket,omitempty"`
}

// TurnEvent describes one processed turn for observability hooks.
type TurnEvent struct {
	ConversationID string       `json:"conversation_id"`
	Step           Step         `json:"step"`
	NextStep       Step         `json:"next_step"`
	ResponseType   ResponseType `json:"response_type"`
	Category       Category     `json:"category,omitempty"`
}

// TicketEvent describes a ticket creation for observability hooks.
type TicketEvent struct {
	TicketID       string   `json:"ticket_id"`
	ConversationID string   `json:"conversation_id"`
	Category       Category `json:"category"`
}

// LifecycleHooks defines callbacks for service observability. Nil hooks are
// skipped.
type LifecycleHooks struct {
	OnTurnProcessed func(context.Context, *TurnEvent)
	OnTicketCreated func(context.Context, *TicketEvent)
}
