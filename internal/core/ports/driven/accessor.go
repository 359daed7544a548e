package driven

import (
	"context"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/domain"
)

// DocumentAccessor abstracts the host-provided document object model.
//
// The host queues mutations against a request context and only applies
// them at explicit synchronisation points, so every mutating operation
// here is queued until Commit. Reads of committed state (BodyText,
// HeaderText, TrackingMode) reflect the document as of the last commit;
// a queued search produces a SearchHandle whose results are empty until
// the batch is committed.
//
// The accessor is version-gated: callers must consult Supports before
// using tracking-mode or change-rejection operations and degrade
// gracefully when a capability is absent.
type DocumentAccessor interface {
	// Supports reports whether the host provides the given capability.
	Supports(c domain.Capability) bool

	// TrackingMode returns the committed change-tracking mode.
	// Fails with domain.ErrCapabilityUnsupported when the host cannot
	// report it.
	TrackingMode(ctx context.Context) (domain.TrackingMode, error)

	// SetTrackingMode queues a change of the document-level tracking
	// mode. Fails with domain.ErrCapabilityUnsupported when the host
	// cannot set it.
	SetTrackingMode(ctx context.Context, m domain.TrackingMode) error

	// BodyText returns the committed text of the document body,
	// paragraphs joined by newlines.
	BodyText(ctx context.Context) (string, error)

	// HeaderText returns the committed text of the first section's
	// header region.
	HeaderText(ctx context.Context) (string, error)

	// InsertHeaderParagraph queues insertion of a styled paragraph at
	// the start of the first section's header.
	InsertHeaderParagraph(ctx context.Context, text string, style domain.TextStyle) error

	// SearchBody queues a literal search of the document body and
	// returns a handle to its results. The handle yields nothing until
	// the next Commit.
	SearchBody(ctx context.Context, literal string, opts domain.SearchOptions) (SearchHandle, error)

	// ReplaceRange queues replacement of a range's text, applying the
	// given style. The edit is recorded as a tracked change when the
	// effective tracking mode at apply time is TrackingAll.
	ReplaceRange(ctx context.Context, ref domain.RangeRef, text string, style domain.TextStyle) error

	// StripHyperlink queues removal of any hyperlink attached to the
	// range. Whether the removal is tracked follows the effective
	// tracking mode at apply time, like any other mutation.
	StripHyperlink(ctx context.Context, ref domain.RangeRef) error

	// RejectAllChanges rejects every tracked change in body and header,
	// restoring the pre-change text. It takes effect immediately, not
	// at Commit. Fails with domain.ErrCapabilityUnsupported when the
	// host cannot batch-reject.
	RejectAllChanges(ctx context.Context) error

	// Commit flushes all queued mutations and searches in order.
	Commit(ctx context.Context) error
}

// SearchHandle is the deferred result of a queued body search.
type SearchHandle interface {
	// Ranges returns the matched ranges in document order. It fails
	// with domain.ErrNotCommitted if the search's batch has not been
	// committed yet.
	Ranges() ([]domain.RangeRef, error)
}
