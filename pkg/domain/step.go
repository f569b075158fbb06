package domain

// Step identifies a phase in the fixed conversation sequence.
type Step string

const (
	// StepGreeting collects and confirms the user's name.
	StepGreeting Step = "greeting"
	// StepCollectIssue collects the free-text issue description.
	StepCollectIssue Step = "collect_issue"
	// StepClarifyDetails collects optional additional details ("skip" allowed).
	StepClarifyDetails Step = "clarify_details"
	// StepSuggestCategory presents the detected category for confirmation.
	StepSuggestCategory Step = "suggest_category"
	// StepConfirmCategory is the branch point after category resolution.
	// The suggest_category handler advances through this step's transition,
	// so a live conversation normally never rests here.
	StepConfirmCategory Step = "confirm_category"
	// StepCollectName gathers the contact email when none is known yet.
	StepCollectName Step = "collect_name"
	// StepFinalConfirmation asks the user to approve ticket creation.
	StepFinalConfirmation Step = "final_confirmation"
	// StepTicketCreated is the terminal state of a completed conversation.
	StepTicketCreated Step = "ticket_created"
	// StepError is the defensive sink for unrecognized states and faults.
	StepError Step = "error"
)

// Valid reports whether s is a member of the step enumeration.
func (s Step) Valid() bool {
	switch s {
	case StepGreeting, StepCollectIssue, StepClarifyDetails, StepSuggestCategory,
		StepConfirmCategory, StepCollectName, StepFinalConfirmation,
		StepTicketCreated, StepError:
		return true
	}
	return false
}

// Terminal reports whether s ends the conversation.
func (s Step) Terminal() bool {
	return s == StepTicketCreated || s == StepError
}

// NextStep is the pure transition function of the step machine. For every
// step except confirm_category the successor is fixed; confirm_category
// branches on whether an email address has already been collected. Steps
// outside the enumeration map to the error sink.
func NextStep(current Step, data CollectedData) Step {
	switch current {
	case StepGreeting:
		return StepCollectIssue
	case StepCollectIssue:
		return StepClarifyDetails
	case StepClarifyDetails:
		return StepSuggestCategory
	case StepSuggestCategory:
		return StepConfirmCategory
	case StepConfirmCategory:
		if data.UserEmail == "" {
			return StepCollectName
		}
		return StepFinalConfirmation
	case StepCollectName:
		return StepFinalConfirmation
	case StepFinalConfirmation:
		return StepTicketCreated
	default:
		return StepError
	}
}
