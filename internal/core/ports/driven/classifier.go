package driven

import "context"

// Classifier detects sensitive text spans (PII/PHI/financial/
// government-ID data) in a blob of text.
//
// Implementations may include:
//   - A generative-AI completion call (Anthropic)
//   - The add-in's own /api/redact endpoint, proxying such a call
//
// The service is opaque, non-deterministic, and rate/quota limited.
// Callers treat a classification as atomic and non-retriable: a
// failure surfaces immediately, there is no retry or backoff.
type Classifier interface {
	// Classify returns the literal substrings of text considered
	// sensitive. An empty slice means nothing was found. The spans are
	// content, not locations; every occurrence of a span in the
	// document is a replacement candidate.
	Classify(ctx context.Context, text string) ([]string, error)

	// Ping validates the service is reachable with a lightweight
	// request, without running inference.
	Ping(ctx context.Context) error
}
