package domain

// ResponseType categorizes the assistant reply produced by a turn.
type ResponseType string

const (
	ResponseQuestion           ResponseType = "question"
	ResponseClarification      ResponseType = "clarification"
	ResponseCategorySuggestion ResponseType = "category_suggestion"
	ResponseConfirmation       ResponseType = "confirmation"
	ResponseSuccess            ResponseType = "success"
	ResponseError              ResponseType = "error"
	ResponseTyping             ResponseType = "typing"
)

// Response is the assistant-facing half of a turn result.
type Response struct {
	Type          ResponseType   `json:"type"`
	Content       string         `json:"content"`
	NextStep      Step           `json:"next_step,omitempty"`
	Suggestions   []string       `json:"suggestions,omitempty"`
	RequiresInput bool           `json:"requires_input"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// TurnResult is everything the engine returns for one processed turn.
type TurnResult struct {
	Response     Response      `json:"response"`
	Conversation *Conversation `json:"conversation"`

	// SuggestedCategory is set when this turn produced a fresh category
	// suggestion, so callers can surface it without digging into state.
	SuggestedCategory Category `json:"suggested_category,omitempty"`
}
