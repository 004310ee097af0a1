// Package parser builds RTL template ASTs from the lexer's token stream.
//
// Parsing is recursive descent over a flat token list with an explicit frame
// stack: a BLOCK_OPEN pushes a frame, the matching BLOCK_CLOSE keyword pops
// it. The parser detects every structural problem the language defines:
//
//   - unclosed blocks (open frames at end of input), naming the keyword and
//     its opening position
//   - mismatched blocks ({{/each}} closing {{#if}}), naming both keywords
//     and both positions
//   - misplaced or duplicate {{#else}}
//   - malformed variable tags: bad paths, unknown formatters, duplicate
//     formatter or default clauses, unterminated default literals
//
// All problems are accumulated as error-severity diagnostics; the parser
// returns a nil template when any are present, so a malformed template can
// never reach the evaluator.
package parser
