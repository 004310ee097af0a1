// Package errors provides the diagnostic types shared by every stage of the
// RTL pipeline (lexer, parser, stage validator, evaluator).
//
// A Diagnostic pairs a category (lexical, structural, resolution, stage,
// macro, format) with a severity (warning, error) and a template location.
// The List type accumulates diagnostics so that a single validation pass can
// report every problem in a template at once instead of stopping at the
// first one.
//
// Severity policy:
//
//   - lexical, structural, and macro diagnostics are error severity and make
//     a template unsafe to render
//   - resolution diagnostics (unknown path, missing optional variable) are
//     warnings; substitution degrades to empty output or the declared default
//   - stage diagnostics (variable not legal in the stage, required variable
//     never referenced) are warnings surfaced to template authors
//   - format diagnostics (formatter applied to the wrong value shape) are
//     warnings; output degrades to plain stringification
//
// List.ToError converts the accumulated diagnostics into a Go error only
// when an error-severity diagnostic is present, so warnings never abort a
// render.
package errors
