// Package engine implements the deterministic turn processor: given one user
// utterance and a conversation snapshot, it classifies the input, advances
// the step machine, and produces the next assistant message.
//
// ProcessTurn is a pure transformation of its inputs. It reads no global
// state, performs no I/O, and never mutates the caller's snapshot, so it is
// safe to invoke concurrently for different conversations without
// coordination.
package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deskhand-io/deskhand/internal/classify"
	"github.com/deskhand-io/deskhand/internal/logging"
	"github.com/deskhand-io/deskhand/internal/prompts"
	"github.com/deskhand-io/deskhand/pkg/domain"
)

// Engine processes conversation turns. Construct with New.
type Engine struct {
	classifier *classify.Classifier
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// Option configures the Engine.
type Option func(*Engine)

// WithClassifier injects a classifier built from custom vocabulary.
func WithClassifier(c *classify.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithLogger configures a logger for per-turn debug events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the timestamp source. Used by tests for deterministic
// message timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the message ID source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an Engine with the default English classifier, a no-op logger,
// wall-clock timestamps, and UUID message IDs.
func New(opts ...Option) *Engine {
	e := &Engine{
		classifier: classify.New(classify.Config{}),
		logger:     logging.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessTurn runs one turn: it appends the user message, dispatches to the
// current step's handler, applies the handler's transition decision, and
// appends the assistant reply.
//
// It never returns nil and never panics to the caller: any fault is
// converted into an error-step response whose conversation is derived from
// the original snapshot, so no partial mutation is ever surfaced.
func (e *Engine) ProcessTurn(userInput string, conv *domain.Conversation) (result *domain.TurnResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("turn processing panicked",
				"conversation_id", conv.ID,
				"step", conv.CurrentStep,
				"recovered", r,
			)
			result = e.errorResult(conv)
		}
	}()

	next := conv.Clone()
	next.Messages = append(next.Messages, domain.Message{
		ID:        e.newID(),
		Role:      domain.RoleUser,
		Content:   userInput,
		Timestamp: e.now(),
	})

	handler, ok := e.handlerFor(next.CurrentStep)
	if !ok {
		e.logger.Warn("unrecognized conversation step",
			"conversation_id", conv.ID,
			"step", conv.CurrentStep,
		)
		next.CurrentStep = domain.StepError
		resp := domain.Response{
			Type:     domain.ResponseError,
			Content:  prompts.GenericError(),
			NextStep: domain.StepError,
		}
		next.Messages = append(next.Messages, e.assistantMessage(resp))
		return &domain.TurnResult{Response: resp, Conversation: next}
	}

	res := handler(userInput, next.Collected)

	var nextStep domain.Step
	switch res.kind {
	case kindAdvance:
		nextStep = res.next
	case kindRetry:
		nextStep = next.CurrentStep
	case kindRestart:
		nextStep = domain.StepGreeting
	}

	next.Collected = res.data
	next.CurrentStep = nextStep
	next.IsComplete = nextStep == domain.StepTicketCreated
	if next.IsComplete && next.CompletedAt == nil {
		completed := e.now()
		next.CompletedAt = &completed
	}

	resp := res.resp
	resp.NextStep = nextStep
	next.Messages = append(next.Messages, e.assistantMessage(resp))

	e.logger.Debug("turn processed",
		"conversation_id", conv.ID,
		"step", conv.CurrentStep,
		"next_step", nextStep,
		"response_type", resp.Type,
	)

	return &domain.TurnResult{
		Response:          resp,
		Conversation:      next,
		SuggestedCategory: res.suggestedCategory,
	}
}

// errorResult builds the response for the internal-exception path. The
// returned conversation is the original snapshot with only the step forced
// to the error sink.
func (e *Engine) errorResult(conv *domain.Conversation) *domain.TurnResult {
	next := conv.Clone()
	next.CurrentStep = domain.StepError
	return &domain.TurnResult{
		Response: domain.Response{
			Type:     domain.ResponseError,
			Content:  prompts.GenericError(),
			NextStep: domain.StepError,
		},
		Conversation: next,
	}
}

func (e *Engine) assistantMessage(resp domain.Response) domain.Message {
	msg := domain.Message{
		ID:        e.newID(),
		Role:      domain.RoleAssistant,
		Content:   resp.Content,
		Timestamp: e.now(),
	}
	if len(resp.Metadata) > 0 {
		msg.Metadata = make(map[string]any, len(resp.Metadata))
		for k, v := range resp.Metadata {
			msg.Metadata[k] = v
		}
	}
	return msg
}
