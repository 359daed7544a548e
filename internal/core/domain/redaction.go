package domain

// RedactionToken is the fixed replacement text substituted for each
// detected sensitive span. It is literal text: a later classifier
// string that happens to match it can re-match an earlier redaction.
const RedactionToken = "[REDACTED]"

// ConfidentialMarker is the fixed string inserted into the document's
// header region to signal that redaction has occurred. Header text is
// never passed through classification, so the marker itself is never
// redacted.
const ConfidentialMarker = "CONFIDENTIAL"

// RedactionStyle is the high-contrast styling applied to every
// redaction token: dark fill, light text.
var RedactionStyle = TextStyle{
	Color:          "#FFFFFF",
	HighlightColor: "#000000",
}

// HeaderStyle is the styling of the confidentiality header paragraph.
var HeaderStyle = TextStyle{
	Bold:      true,
	Color:     "#C00000",
	Alignment: AlignCenter,
}

// RedactionResult is the ephemeral outcome of a redaction run.
// Nothing about it is persisted; it exists only for reporting.
type RedactionResult struct {
	// SpansProcessed is the number of non-blank classifier spans the
	// run searched for, whether or not any occurrence was found.
	SpansProcessed int

	// OccurrencesReplaced is the total number of body ranges replaced
	// by the redaction token across all spans.
	OccurrencesReplaced int
}
