package domain

import "time"

// TicketStatus represents the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketClosed     TicketStatus = "closed"
)

// Ticket is the structured artifact created from a completed conversation.
type Ticket struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Category       Category     `json:"category"`
	CustomerName   string       `json:"customer_name"`
	CustomerEmail  string       `json:"customer_email"`
	Details        []string     `json:"details,omitempty"`
	Status         TicketStatus `json:"status"`
	ConversationID string       `json:"conversation_id"`
	CreatedAt      time.Time    `json:"created_at"`
	ClosedAt       *time.Time   `json:"closed_at,omitempty"`
}

// TicketFromConversation builds a ticket from the collected data of a
// completed conversation. The caller assigns the ID and timestamp.
func TicketFromConversation(conv *Conversation, id string, now time.Time) *Ticket {
	data := conv.Collected
	category := data.ConfirmedCategory
	if category == "" {
		category = data.SuggestedCategory
	}
	if category == "" {
		category = CategoryGeneral
	}
	title := data.IssueTitle
	if title == "" {
		title = "Support Request"
	}
	return &Ticket{
		ID:             id,
		Title:          title,
		Description:    data.IssueDescription,
		Category:       category,
		CustomerName:   data.UserName,
		CustomerEmail:  data.UserEmail,
		Details:        append([]string(nil), data.AdditionalDetails...),
		Status:         TicketOpen,
		ConversationID: conv.ID,
		CreatedAt:      now,
	}
}
