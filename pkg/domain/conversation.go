package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single entry in a conversation transcript. The engine appends
// exactly one user and one assistant message per turn and never rewrites
// earlier entries.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// CollectedData accumulates the structured fields extracted from free text
// across turns. Fields are only added or overwritten, never removed, except
// PotentialName which is cleared once the name-confirmation sub-dialogue
// resolves.
type CollectedData struct {
	UserName          string   `json:"user_name,omitempty"`
	UserEmail         string   `json:"user_email,omitempty"`
	IssueDescription  string   `json:"issue_description,omitempty"`
	IssueTitle        string   `json:"issue_title,omitempty"`
	SuggestedCategory Category `json:"suggested_category,omitempty"`
	ConfirmedCategory Category `json:"confirmed_category,omitempty"`
	AdditionalDetails []string `json:"additional_details,omitempty"`

	// PotentialName holds a name extracted from a sentence but not yet
	// confirmed by the user. It never outlives the greeting step.
	PotentialName string `json:"potential_name,omitempty"`
}

// Conversation is the sole mutable entity threaded through the engine.
// The engine receives a snapshot and returns a new one; persistence and
// identity generation belong to the calling layer.
type Conversation struct {
	ID              string        `json:"id"`
	CurrentStep     Step          `json:"current_step"`
	Collected       CollectedData `json:"collected_data"`
	Messages        []Message     `json:"messages"`
	IsComplete      bool          `json:"is_complete"`
	CreatedTicketID string        `json:"created_ticket_id,omitempty"`
	StartedAt       time.Time     `json:"started_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

// NewConversation creates an empty conversation positioned at the greeting
// step. The caller supplies the identifier.
func NewConversation(id string, startedAt time.Time) *Conversation {
	return &Conversation{
		ID:          id,
		CurrentStep: StepGreeting,
		Messages:    []Message{},
		StartedAt:   startedAt,
	}
}

// Clone returns a deep copy of the conversation, safe for mutation without
// affecting the original snapshot.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	next := *c
	next.Messages = make([]Message, len(c.Messages))
	copy(next.Messages, c.Messages)
	for i, m := range next.Messages {
		if m.Metadata != nil {
			md := make(map[string]any, len(m.Metadata))
			for k, v := range m.Metadata {
				md[k] = v
			}
			next.Messages[i].Metadata = md
		}
	}
	if c.Collected.AdditionalDetails != nil {
		next.Collected.AdditionalDetails = append([]string(nil), c.Collected.AdditionalDetails...)
	}
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		next.CompletedAt = &t
	}
	return &next
}
