package domain

// TrackingMode is the document-level change-tracking setting.
// It applies to the whole document, not to individual edits.
type TrackingMode int

const (
	// TrackingOff applies edits destructively, without recording deltas.
	TrackingOff TrackingMode = iota

	// TrackingAll records every edit as an accept/reject-able change.
	TrackingAll
)

// String returns the host-facing name of the mode.
func (m TrackingMode) String() string {
	switch m {
	case TrackingOff:
		return "off"
	case TrackingAll:
		return "trackAll"
	default:
		return "unknown"
	}
}

// Capability identifies a host document feature that may be absent on
// older host versions. Callers must check support before relying on one.
type Capability int

const (
	// CapabilityTrackingMode is the ability to read and set the
	// document's change-tracking mode.
	CapabilityTrackingMode Capability = iota

	// CapabilityChangeRejection is the ability to reject all tracked
	// changes in a single batched operation.
	CapabilityChangeRejection
)

// String returns a human-readable capability name.
func (c Capability) String() string {
	switch c {
	case CapabilityTrackingMode:
		return "tracking mode"
	case CapabilityChangeRejection:
		return "change rejection"
	default:
		return "unknown"
	}
}

// RangeRef is an opaque handle to a contiguous text range inside the
// document body. Refs are produced by committed searches and consumed
// by queued replace and unlink operations. A ref is only valid until
// the next change rejection.
type RangeRef string

// SearchOptions configures a literal text search of the document body.
type SearchOptions struct {
	// MatchCase requires exact case. The redaction workflow always
	// searches case-insensitively, so this defaults to false.
	MatchCase bool
}

// Alignment is the paragraph alignment of inserted text.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
)

// TextStyle is the visual styling applied alongside a text mutation.
// Colors are hex strings in the host's "#RRGGBB" form.
type TextStyle struct {
	// Bold sets the font weight.
	Bold bool

	// Color is the font color.
	Color string

	// HighlightColor is the fill behind the text.
	HighlightColor string

	// Alignment is the paragraph alignment.
	Alignment Alignment
}

// IsZero reports whether no styling was requested.
func (s TextStyle) IsZero() bool {
	return s == TextStyle{}
}
