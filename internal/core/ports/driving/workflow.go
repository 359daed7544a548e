package driving

import (
	"context"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/domain"
)

// RunState is the explicit lifecycle state of a redaction workflow.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateDone
	StateError
)

// String returns a display name for the state.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Progress is a single status report from a running workflow.
type Progress struct {
	// State is the workflow state at the time of the report.
	State RunState

	// Message is the user-facing status text.
	Message string

	// Processed is the running count of spans handled so far.
	// Zero outside the redaction phase.
	Processed int

	// Total is the number of spans the run will process.
	// Zero outside the redaction phase.
	Total int
}

// ProgressSink receives status reports. It is injected by the driving
// adapter; a nil sink suppresses reporting without suppressing the
// underlying document mutations.
type ProgressSink func(Progress)

// RedactionWorkflow turns "user pressed redact" into a sequence of
// idempotent, trackable document mutations.
type RedactionWorkflow interface {
	// Run executes the full workflow: enable tracking, insert the
	// confidentiality header, classify the body, redact every span.
	// Only one run may be active at a time; a second concurrent call
	// fails with domain.ErrRunInProgress. Mutations committed before a
	// failure are not rolled back.
	Run(ctx context.Context, sink ProgressSink) (domain.RedactionResult, error)

	// RejectAll rejects every tracked change, restoring the document's
	// pre-redaction text. When the host cannot batch-reject it fails
	// with a descriptive error instructing manual reversal.
	RejectAll(ctx context.Context) error

	// State returns the workflow's current lifecycle state.
	State() RunState
}
