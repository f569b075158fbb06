package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhand-io/deskhand/internal/engine"
	"github.com/deskhand-io/deskhand/pkg/domain"
)

func newTestEngine() *engine.Engine {
	seq := 0
	return engine.New(
		engine.WithClock(func() time.Time {
			return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		}),
		engine.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("msg-%03d", seq)
		}),
	)
}

func newConversation() *domain.Conversation {
	return domain.NewConversation("conv-1", time.Date(2026, 8, 30, 11, 59, 0, 0, time.UTC))
}

func TestProcessTurn_StagedNameFlow(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()

	// A sentence stages the name and stays on greeting.
	res := e.ProcessTurn("My name is Alice", conv)
	require.NotNil(t, res)
	assert.Equal(t, domain.StepGreeting, res.Conversation.CurrentStep)
	assert.Equal(t, "Alice", res.Conversation.Collected.PotentialName)
	assert.Empty(t, res.Conversation.Collected.UserName)
	assert.Equal(t, domain.ResponseConfirmation, res.Response.Type)

	// "yes" commits the staged name and advances.
	res = e.ProcessTurn("yes", res.Conversation)
	assert.Equal(t, domain.StepCollectIssue, res.Conversation.CurrentStep)
	assert.Equal(t, "Alice", res.Conversation.Collected.UserName)
	assert.Empty(t, res.Conversation.Collected.PotentialName, "staged name must be cleared once resolved")
	assert.Contains(t, res.Response.Content, "Alice")
}

func TestProcessTurn_StagedNameDeclined(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()

	res := e.ProcessTurn("Hi, my name is John and I need help", conv)
	require.Equal(t, "John", res.Conversation.Collected.PotentialName)

	res = e.ProcessTurn("no", res.Conversation)
	assert.Equal(t, domain.StepGreeting, res.Conversation.CurrentStep)
	assert.Empty(t, res.Conversation.Collected.PotentialName)
	assert.Empty(t, res.Conversation.Collected.UserName)
	assert.Equal(t, domain.ResponseClarification, res.Response.Type)
}

func TestProcessTurn_BareNameAdvancesDirectly(t *testing.T) {
	e := newTestEngine()

	res := e.ProcessTurn("John Smith", newConversation())
	assert.Equal(t, domain.StepCollectIssue, res.Conversation.CurrentStep)
	assert.Equal(t, "John Smith", res.Conversation.Collected.UserName)
}

func TestProcessTurn_ShortIssueRetries(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()
	conv.CurrentStep = domain.StepCollectIssue
	conv.Collected.UserName = "Ana"

	res := e.ProcessTurn("broken", conv)
	assert.Equal(t, domain.StepCollectIssue, res.Conversation.CurrentStep)
	assert.Empty(t, res.Conversation.Collected.IssueDescription)
	assert.Equal(t, domain.ResponseClarification, res.Response.Type)
}

func TestProcessTurn_IssueTitleDerivation(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()
	conv.CurrentStep = domain.StepCollectIssue

	res := e.ProcessTurn("The upload crashes every time. It started on Monday after the update.", conv)
	assert.Equal(t, domain.StepClarifyDetails, res.Conversation.CurrentStep)
	assert.Equal(t, "The upload crashes every time", res.Conversation.Collected.IssueTitle)
}

func TestProcessTurn_SkipDetails(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()
	conv.CurrentStep = domain.StepClarifyDetails
	conv.Collected.IssueDescription = "the server keeps returning an error on every connection"

	res := e.ProcessTurn("skip", conv)
	assert.Equal(t, domain.StepSuggestCategory, res.Conversation.CurrentStep)
	assert.Empty(t, res.Conversation.Collected.AdditionalDetails, `"skip" must append nothing`)
	assert.Equal(t, domain.CategoryTechnical, res.Conversation.Collected.SuggestedCategory)
	assert.Equal(t, domain.CategoryTechnical, res.SuggestedCategory)
	assert.Equal(t, domain.ResponseCategorySuggestion, res.Response.Type)
}

func TestProcessTurn_CategoryConfirmationBranches(t *testing.T) {
	base := func() *domain.Conversation {
		conv := newConversation()
		conv.CurrentStep = domain.StepSuggestCategory
		conv.Collected.SuggestedCategory = domain.CategoryTechnical
		return conv
	}

	t.Run("affirmative confirms suggestion", func(t *testing.T) {
		res := newTestEngine().ProcessTurn("yes", base())
		assert.Equal(t, domain.CategoryTechnical, res.Conversation.Collected.ConfirmedCategory)
		assert.Equal(t, domain.StepCollectName, res.Conversation.CurrentStep)
	})

	t.Run("negative falls back to general", func(t *testing.T) {
		res := newTestEngine().ProcessTurn("no", base())
		assert.Equal(t, domain.CategoryGeneral, res.Conversation.Collected.ConfirmedCategory)
	})

	t.Run("neither re-detects on the raw input", func(t *testing.T) {
		res := newTestEngine().ProcessTurn("it is about my invoice payment", base())
		assert.Equal(t, domain.CategoryBilling, res.Conversation.Collected.ConfirmedCategory)
	})

	t.Run("known email skips the email step", func(t *testing.T) {
		conv := base()
		conv.Collected.UserEmail = "ana@example.com"
		res := newTestEngine().ProcessTurn("yes", conv)
		assert.Equal(t, domain.StepFinalConfirmation, res.Conversation.CurrentStep)
	})
}

func TestProcessTurn_EmailValidation(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()
	conv.CurrentStep = domain.StepCollectName

	res := e.ProcessTurn("not-an-email", conv)
	assert.Equal(t, domain.StepCollectName, res.Conversation.CurrentStep)
	assert.Equal(t, domain.ResponseClarification, res.Response.Type)

	res = e.ProcessTurn("Ana@Example.COM", res.Conversation)
	assert.Equal(t, domain.StepFinalConfirmation, res.Conversation.CurrentStep)
	assert.Equal(t, "ana@example.com", res.Conversation.Collected.UserEmail)
}

func TestProcessTurn_HappyPathSixTurns(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()

	inputs := []string{
		"John Smith",
		"my application crashes whenever I try to upload a file",
		"skip",
		"yes",
		"john@example.com",
		"yes",
	}

	var res *domain.TurnResult
	for i, input := range inputs {
		res = e.ProcessTurn(input, conv)
		require.NotNil(t, res, "turn %d", i+1)
		conv = res.Conversation
	}

	assert.Equal(t, domain.StepTicketCreated, conv.CurrentStep)
	assert.True(t, conv.IsComplete)
	require.NotNil(t, conv.CompletedAt)
	assert.Equal(t, domain.ResponseSuccess, res.Response.Type)
	assert.Equal(t, true, res.Response.Metadata["should_create_ticket"])
	// One user and one assistant message per turn.
	assert.Len(t, conv.Messages, 12)
}

func TestProcessTurn_DeclineAtFinalConfirmationRestarts(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()
	conv.CurrentStep = domain.StepFinalConfirmation
	conv.Collected = domain.CollectedData{
		UserName:          "Ana",
		UserEmail:         "ana@example.com",
		IssueDescription:  "the export button does nothing at all",
		IssueTitle:        "the export button does nothing at all",
		ConfirmedCategory: domain.CategoryBugReport,
	}

	res := e.ProcessTurn("no, wait", conv)
	assert.Equal(t, domain.StepGreeting, res.Conversation.CurrentStep)
	assert.False(t, res.Conversation.IsComplete)
	// Collected data survives the restart.
	assert.Equal(t, "Ana", res.Conversation.Collected.UserName)
	assert.Equal(t, "ana@example.com", res.Conversation.Collected.UserEmail)
	assert.Equal(t, domain.CategoryBugReport, res.Conversation.Collected.ConfirmedCategory)
}

func TestProcessTurn_UnrecognizedStepGoesToErrorSink(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()
	conv.CurrentStep = domain.Step("bogus")

	res := e.ProcessTurn("hello", conv)
	assert.Equal(t, domain.StepError, res.Conversation.CurrentStep)
	assert.Equal(t, domain.ResponseError, res.Response.Type)
	assert.NotEmpty(t, res.Response.Content)
}

func TestProcessTurn_TerminalStepsRouteToError(t *testing.T) {
	for _, step := range []domain.Step{domain.StepTicketCreated, domain.StepError} {
		conv := newConversation()
		conv.CurrentStep = step

		res := newTestEngine().ProcessTurn("anything", conv)
		assert.Equal(t, domain.StepError, res.Conversation.CurrentStep, "step %s", step)
		assert.Equal(t, domain.ResponseError, res.Response.Type)
	}
}

func TestProcessTurn_DoesNotMutateCaller(t *testing.T) {
	e := newTestEngine()
	conv := newConversation()

	_ = e.ProcessTurn("John Smith", conv)

	assert.Equal(t, domain.StepGreeting, conv.CurrentStep, "caller's snapshot must be untouched")
	assert.Empty(t, conv.Collected.UserName)
	assert.Empty(t, conv.Messages)
}

func TestProcessTurn_NextStepAlwaysDefined(t *testing.T) {
	steps := []domain.Step{
		domain.StepGreeting, domain.StepCollectIssue, domain.StepClarifyDetails,
		domain.StepSuggestCategory, domain.StepConfirmCategory, domain.StepCollectName,
		domain.StepFinalConfirmation, domain.StepTicketCreated, domain.StepError,
		domain.Step("garbage"),
	}
	inputs := []string{"", "yes", "no", "skip", "John Smith", "a@b.co", "this is a much longer free text input, with punctuation!"}

	for _, step := range steps {
		for _, input := range inputs {
			conv := newConversation()
			conv.CurrentStep = step
			conv.Collected.SuggestedCategory = domain.CategoryGeneral

			res := newTestEngine().ProcessTurn(input, conv)
			require.NotNil(t, res)
			next := res.Conversation.CurrentStep
			assert.True(t, next.Valid(), "step %q input %q produced undefined step %q", step, input, next)
			assert.Equal(t, next, res.Response.NextStep)
		}
	}
}
