// Package diag defines the diagnostic model shared by parsers, the scan
// driver and the renderers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (low warning, normal warning, error) defined
//     in severity.go. Informational guidance maps to the low level.
//   - Category: the tool-assigned message code (e.g. "0711-317").
//   - Message: the free text describing the specific problem.
//   - LineStart / LineEnd: source line range; 0 for link-phase findings.
//   - FileName: source file; NoFile ("-") for link-phase findings.
//   - Origin: the log the record was read from, stamped by the driver.
//
// Diagnostics are values. Helpers such as WithOrigin return modified copies.
//
// # Emitting diagnostics
//
// Parsers report through a Reporter so they stay decoupled from storage.
// BagReporter aggregates into a Bag, which supports sorting, deduplication,
// filtering and transformation. DedupReporter drops repeats on the fly.
//
// Package diag does not perform formatting beyond the compact short form, IO,
// or CLI integration. Rendering lives in internal/diagfmt.
package diag
