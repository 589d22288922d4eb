// Package decl extracts structured declarations from statements: functions,
// records (struct/union/enum), variables and macros.
//
// Extractors never report diagnostics. They return nil for statements that
// do not have the expected shape, and merge conflicts come back from Update
// as plain messages for the caller to report.
package decl
