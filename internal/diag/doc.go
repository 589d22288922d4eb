// Package diag defines the diagnostic model shared by all analysis phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the tokenizer, the extractors, the macro expander, the symbol table and
//     the access checker.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering lives in internal/diagfmt, orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – DEBUG5…DEBUG, INFO, WARNING, ERROR, FATAL (severity.go).
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages, e.g. the other location of a
//     conflicting redefinition.
//
// # Error counting
//
// A Bag counts every ERROR and FATAL diagnostic it is offered, including
// those dropped by its level or its limit. The run's exit status is derived
// from that counter, never from the rendered output.
//
// # Concurrency
//
// Neither Bag nor the reporters are safe for concurrent use. Parallel units
// of work each get their own Bag; the coordinator merges them in a fixed
// order so output does not depend on scheduling.
package diag
