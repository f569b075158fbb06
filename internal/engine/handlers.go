package engine

import (
	"strings"

	"github.com/deskhand-io/deskhand/internal/prompts"
	"github.com/deskhand-io/deskhand/pkg/domain"
)

const (
	maxIssueLen   = 1000
	minIssueLen   = 10
	maxDetailLen  = 500
	minDetailLen  = 5
	maxTitleLen   = 100
	fallbackTitle = "Support Request"
)

type stepHandler func(input string, data domain.CollectedData) stepResult

// handlerFor returns the handler for the given step. Terminal steps and
// anything outside the enumeration have no handler; the engine routes those
// to the error sink.
func (e *Engine) handlerFor(step domain.Step) (stepHandler, bool) {
	switch step {
	case domain.StepGreeting:
		return e.handleGreeting, true
	case domain.StepCollectIssue:
		return e.handleCollectIssue, true
	case domain.StepClarifyDetails:
		return e.handleClarifyDetails, true
	case domain.StepSuggestCategory, domain.StepConfirmCategory:
		// confirm_category is a pass-through branch point; if a stored
		// conversation is ever resumed on it, treat it like the suggestion
		// step instead of failing.
		return e.handleSuggestCategory, true
	case domain.StepCollectName:
		return e.handleCollectEmail, true
	case domain.StepFinalConfirmation:
		return e.handleFinalConfirmation, true
	default:
		return nil, false
	}
}

// handleGreeting resolves the user's name, including the staged-name
// confirmation sub-dialogue. A name extracted from a sentence is staged in
// PotentialName and only committed after an affirmative reply.
func (e *Engine) handleGreeting(input string, data domain.CollectedData) stepResult {
	if data.PotentialName != "" {
		// Affirmative is checked before negative throughout.
		if e.classifier.IsAffirmative(input) {
			data.UserName = data.PotentialName
			data.PotentialName = ""
			return advanceTo(domain.NextStep(domain.StepGreeting, data), data, domain.Response{
				Type:          domain.ResponseQuestion,
				Content:       prompts.AskIssue(data.UserName),
				RequiresInput: true,
			})
		}
		if e.classifier.IsNegative(input) {
			data.PotentialName = ""
			return retryStep(data, domain.Response{
				Type:          domain.ResponseClarification,
				Content:       prompts.AskPlainName(),
				RequiresInput: true,
			})
		}
		// Neither yes nor no: treat this input as a fresh name attempt.
		data.PotentialName = ""
	}

	res := e.classifier.ExtractName(input)
	switch {
	case res.IsSentence && res.Name != "":
		data.PotentialName = res.Name
		return retryStep(data, domain.Response{
			Type:          domain.ResponseConfirmation,
			Content:       prompts.ConfirmName(res.Name),
			Suggestions:   []string{"Yes", "No"},
			RequiresInput: true,
		})
	case res.NeedsClarification:
		return retryStep(data, domain.Response{
			Type:          domain.ResponseClarification,
			Content:       prompts.AskPlainName(),
			RequiresInput: true,
		})
	default:
		data.UserName = res.Name
		return advanceTo(domain.NextStep(domain.StepGreeting, data), data, domain.Response{
			Type:          domain.ResponseQuestion,
			Content:       prompts.AskIssue(data.UserName),
			RequiresInput: true,
		})
	}
}

// handleCollectIssue stores the issue description and derives the ticket
// title from it.
func (e *Engine) handleCollectIssue(input string, data domain.CollectedData) stepResult {
	desc := collapseWhitespace(input)
	if len(desc) > maxIssueLen {
		desc = desc[:maxIssueLen]
	}
	if len(desc) < minIssueLen {
		return retryStep(data, domain.Response{
			Type:          domain.ResponseClarification,
			Content:       prompts.IssueTooShort(),
			RequiresInput: true,
		})
	}

	data.IssueDescription = desc
	data.IssueTitle = deriveTitle(desc)
	return advanceTo(domain.NextStep(domain.StepCollectIssue, data), data, domain.Response{
		Type:          domain.ResponseQuestion,
		Content:       prompts.AskDetails(),
		Suggestions:   []string{"skip"},
		RequiresInput: true,
	})
}

// handleClarifyDetails appends optional details ("skip" appends nothing) and
// runs category detection over everything collected so far.
func (e *Engine) handleClarifyDetails(input string, data domain.CollectedData) stepResult {
	text := collapseWhitespace(input)
	if len(text) > maxDetailLen {
		text = text[:maxDetailLen]
	}

	skip := strings.Contains(strings.ToLower(text), "skip")
	if !skip && len(text) < minDetailLen {
		return retryStep(data, domain.Response{
			Type:          domain.ResponseClarification,
			Content:       prompts.DetailsTooShort(),
			RequiresInput: true,
		})
	}
	if !skip {
		data.AdditionalDetails = append(data.AdditionalDetails, text)
	}

	corpus := strings.Join(append([]string{data.IssueDescription}, data.AdditionalDetails...), " ")
	category := e.classifier.DetectCategory(corpus)
	data.SuggestedCategory = category

	res := advanceTo(domain.NextStep(domain.StepClarifyDetails, data), data, domain.Response{
		Type:          domain.ResponseCategorySuggestion,
		Content:       prompts.SuggestCategory(category),
		Suggestions:   []string{"Yes, that's right", "No, it's something else"},
		RequiresInput: true,
	})
	res.suggestedCategory = category
	return res
}

// handleSuggestCategory resolves the suggested category and advances through
// the confirm_category branch: straight to the final confirmation when an
// email is already known, otherwise to email collection. It always advances.
func (e *Engine) handleSuggestCategory(input string, data domain.CollectedData) stepResult {
	switch {
	case e.classifier.IsAffirmative(input):
		data.ConfirmedCategory = data.SuggestedCategory
		if data.ConfirmedCategory == "" {
			data.ConfirmedCategory = domain.CategoryGeneral
		}
	case e.classifier.IsNegative(input):
		data.ConfirmedCategory = domain.CategoryGeneral
	default:
		data.ConfirmedCategory = e.classifier.DetectCategory(input)
	}

	next := domain.NextStep(domain.StepConfirmCategory, data)
	if next == domain.StepCollectName {
		return advanceTo(next, data, domain.Response{
			Type:          domain.ResponseQuestion,
			Content:       prompts.AskEmail(data.UserName),
			RequiresInput: true,
		})
	}
	return advanceTo(next, data, domain.Response{
		Type:          domain.ResponseConfirmation,
		Content:       prompts.FinalConfirmation(data),
		Suggestions:   []string{"Yes, create it", "No, start over"},
		RequiresInput: true,
	})
}

// handleCollectEmail validates and stores the contact email address.
func (e *Engine) handleCollectEmail(input string, data domain.CollectedData) stepResult {
	if !e.classifier.IsValidEmail(input) {
		return retryStep(data, domain.Response{
			Type:          domain.ResponseClarification,
			Content:       prompts.InvalidEmail(),
			RequiresInput: true,
		})
	}

	data.UserEmail = e.classifier.NormalizeEmail(input)
	return advanceTo(domain.NextStep(domain.StepCollectName, data), data, domain.Response{
		Type:          domain.ResponseConfirmation,
		Content:       prompts.FinalConfirmation(data),
		Suggestions:   []string{"Yes, create it", "No, start over"},
		RequiresInput: true,
	})
}

// handleFinalConfirmation either finishes the conversation or restarts the
// step sequence. Collected data is preserved on restart so the user only
// corrects what was wrong.
func (e *Engine) handleFinalConfirmation(input string, data domain.CollectedData) stepResult {
	if e.classifier.IsAffirmative(input) {
		return advanceTo(domain.NextStep(domain.StepFinalConfirmation, data), data, domain.Response{
			Type:          domain.ResponseSuccess,
			Content:       prompts.TicketCreated(data.UserName),
			RequiresInput: false,
			Metadata:      map[string]any{"should_create_ticket": true},
		})
	}
	return restartConversation(data, domain.Response{
		Type:          domain.ResponseQuestion,
		Content:       prompts.Restart(),
		RequiresInput: true,
	})
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// deriveTitle takes the text before the first period, capped at 100 chars.
func deriveTitle(desc string) string {
	title := desc
	if i := strings.Index(desc, "."); i >= 0 {
		title = desc[:i]
	}
	title = strings.TrimSpace(title)
	if len(title) > maxTitleLen {
		title = strings.TrimSpace(title[:maxTitleLen])
	}
	if title == "" {
		return fallbackTitle
	}
	return title
}
