// Package prompts renders the assistant's messages from collected
// conversation data. Every function is pure: no state, no side effects, and
// nothing here can fail — missing fields degrade to generic wording.
package prompts

import (
	"fmt"
	"strings"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

// Greeting opens a new conversation.
func Greeting() string {
	return "Hi! I'm here to help you create a support ticket. What's your name?"
}

// AskPlainName re-asks for a name when extraction from a sentence failed.
func AskPlainName() string {
	return "Thanks! I didn't quite catch your name though. Could you tell me just your name?"
}

// ConfirmName asks the user to confirm a name staged from a sentence.
func ConfirmName(name string) string {
	return fmt.Sprintf("Nice to meet you! Just to confirm, is your name %s?", name)
}

// AskIssue greets a named user and asks for the issue description.
func AskIssue(name string) string {
	if name == "" {
		return "Great! Now, please describe the issue you're experiencing."
	}
	return fmt.Sprintf("Great to meet you, %s! Now, please describe the issue you're experiencing.", name)
}

// IssueTooShort asks for a longer issue description.
func IssueTooShort() string {
	return "Could you give me a bit more detail? A couple of sentences about what happened helps us route your ticket correctly."
}

// AskDetails asks for optional additional details.
func AskDetails() string {
	return "Thanks for explaining! Is there anything else I should know - error messages, when it started, what you already tried? You can also type \"skip\"."
}

// DetailsTooShort re-asks when the details were too short to be useful.
func DetailsTooShort() string {
	return "That was a little short. Could you add a few more words, or type \"skip\" to move on?"
}

// SuggestCategory presents the detected category for confirmation.
func SuggestCategory(category domain.Category) string {
	return fmt.Sprintf("Based on what you've told me, this looks like a %s issue. Did I get that right?", category.DisplayName())
}

// AskEmail requests a contact email address.
func AskEmail(name string) string {
	if name == "" {
		return "Almost done! What email address should we use to follow up with you?"
	}
	return fmt.Sprintf("Almost done, %s! What email address should we use to follow up with you?", name)
}

// InvalidEmail re-asks after a failed email validation.
func InvalidEmail() string {
	return "Hmm, that doesn't look like an email address. Could you double-check it? (e.g. name@example.com)"
}

// FinalConfirmation summarizes the ticket about to be created.
func FinalConfirmation(data domain.CollectedData) string {
	category := data.ConfirmedCategory
	if category == "" {
		category = domain.CategoryGeneral
	}

	var b strings.Builder
	b.WriteString("Here's what I'll put in your ticket:\n\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", orDash(data.UserName))
	fmt.Fprintf(&b, "- **Email:** %s\n", orDash(data.UserEmail))
	fmt.Fprintf(&b, "- **Issue:** %s\n", orDash(data.IssueTitle))
	fmt.Fprintf(&b, "- **Category:** %s\n", category.DisplayName())
	if len(data.AdditionalDetails) > 0 {
		fmt.Fprintf(&b, "- **Details:** %s\n", strings.Join(data.AdditionalDetails, "; "))
	}
	b.WriteString("\nShall I create this ticket?")
	return b.String()
}

// TicketCreated closes a completed conversation.
func TicketCreated(name string) string {
	if name == "" {
		return "All set! Your support ticket has been created. Our team will reach out to you shortly."
	}
	return fmt.Sprintf("All set, %s! Your support ticket has been created. Our team will reach out to you shortly.", name)
}

// Restart is used when the user declines the final confirmation.
func Restart() string {
	return "No problem, let's start over. Your answers are saved, so just correct whatever was wrong. What's your name?"
}

// GenericError is the apology shown on the error step.
func GenericError() string {
	return "I'm sorry, something went wrong on my end. Please try sending your message again."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
