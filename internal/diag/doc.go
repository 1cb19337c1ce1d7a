// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// # Purpose
//
//   - Provide deterministic, serialisable records of findings (a syntax error
//     in a report, a file that failed to load, phase timings).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration beyond
// the single-line short form used by golden tests. Rendering lives in
// internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form
//     (LEX1001, SYN2001, ...).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing at the failure.
//   - Notes – optional secondary spans, e.g. the label whose field was left empty.
//
// Validation stops at the first syntax error, so a report yields at most one
// SYN/LEX diagnostic; a directory run yields at most one per file.
package diag
