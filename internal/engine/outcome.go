package engine

import "github.com/deskhand-io/deskhand/pkg/domain"

// outcomeKind tags what a step handler decided about the step machine.
// The "stay on this step" retry loop is an explicit outcome, not a hidden
// branch of the transition table.
type outcomeKind int

const (
	// kindAdvance moves to the step carried by the result.
	kindAdvance outcomeKind = iota
	// kindRetry keeps the conversation on the current step.
	kindRetry
	// kindRestart sends the conversation back to the greeting step,
	// preserving collected data.
	kindRestart
)

// stepResult is the full outcome of one step handler: the tagged transition
// decision, the updated collected data, and the assistant response (without
// NextStep, which the engine fills in once the transition is resolved).
type stepResult struct {
	kind outcomeKind
	next domain.Step // valid only when kind == kindAdvance
	data domain.CollectedData
	resp domain.Response

	// suggestedCategory is set when this turn produced a fresh category
	// suggestion for the caller to surface.
	suggestedCategory domain.Category
}

func advanceTo(next domain.Step, data domain.CollectedData, resp domain.Response) stepResult {
	return stepResult{kind: kindAdvance, next: next, data: data, resp: resp}
}

func retryStep(data domain.CollectedData, resp domain.Response) stepResult {
	return stepResult{kind: kindRetry, data: data, resp: resp}
}

func restartConversation(data domain.CollectedData, resp domain.Response) stepResult {
	return stepResult{kind: kindRestart, data: data, resp: resp}
}
