// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The two ports that matter are DocumentAccessor, which abstracts the
// host document object model behind capability-checked, batched-commit
// operations, and Classifier, which abstracts the remote sensitive-text
// detection service. Both are foreign, stateful collaborators; keeping
// them behind interfaces lets the redaction workflow run against an
// in-memory fake instead of a live host.
package driven
