// Package evaluator renders parsed RTL templates against a variable
// environment.
//
// Evaluation is synchronous and pure: no I/O, no shared mutable state. The
// per-render state (output buffer, loop bindings, macro expansion stack)
// lives on the call stack of a single Evaluate invocation, so one Evaluator
// may serve concurrent renders without locks.
//
// Behavioral contracts:
//
//   - missing optional variables degrade to the declared default or empty
//     text, never a render failure
//   - conditionals test presence-based truthiness with optional && / ||
//   - each loops bind this/@index over sequences and this/@key over ordered
//     mappings, shadowing outer bindings per nesting level
//   - macros expand recursively against the same environment, bounded by an
//     explicit depth counter (DefaultMaxMacroDepth); cycles and depth
//     overruns abort the render with a fatal macro diagnostic
//   - formatters degrade to plain stringification on shape mismatch,
//     recording a format diagnostic
package evaluator
