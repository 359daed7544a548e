// Package domain defines the core business entities for the redactor.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TrackingMode: the document-level change-tracking setting
//   - Capability: host features a document accessor may lack
//   - TextStyle: visual styling applied to redacted ranges and headers
//   - RedactionResult: the ephemeral outcome of a redaction run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
