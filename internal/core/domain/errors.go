package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrCapabilityUnsupported indicates the host document API is too
	// old for a feature. Non-fatal for change tracking (the workflow
	// degrades with a warning); fatal-but-descriptive for rejection.
	ErrCapabilityUnsupported = errors.New("capability unsupported")

	// ErrClassifierUnavailable indicates the classification endpoint
	// could not be reached or returned a non-2xx status. Fatal to the
	// current run; no retries.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrClassifierMalformed indicates the classifier replied with
	// content that is not a JSON array of strings.
	ErrClassifierMalformed = errors.New("classifier returned malformed output")

	// ErrEmptyDocument indicates there is no body text to process.
	// This is informational: the run ends early with no mutation.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrRunInProgress indicates a redaction run is already active.
	// Only one run is permitted at a time.
	ErrRunInProgress = errors.New("redaction run already in progress")

	// ErrNotCommitted indicates a queued read was consumed before the
	// batch it belongs to was committed.
	ErrNotCommitted = errors.New("search results read before commit")

	// ErrUnknownRange indicates a range handle that the document does
	// not recognise, typically one invalidated by change rejection.
	ErrUnknownRange = errors.New("unknown range")
)

// MalformedOutputError carries the unparseable classifier payload for
// diagnostics. It matches ErrClassifierMalformed under errors.Is.
type MalformedOutputError struct {
	// Raw is the reply content that failed to parse as a JSON array.
	Raw string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%v: %q", ErrClassifierMalformed, e.Raw)
}

// Is makes errors.Is(err, ErrClassifierMalformed) succeed.
func (e *MalformedOutputError) Is(target error) bool {
	return target == ErrClassifierMalformed
}
