// Package driving provides interfaces for actor-facing adapters (primary/inbound ports).
//
// The redaction workflow is driven by a UI surface (here, the CLI and
// the HTTP server). Run state is explicit rather than implicit in
// closures: the workflow exposes an idle/running/done/error state and
// reports progress through an injected sink.
package driving
