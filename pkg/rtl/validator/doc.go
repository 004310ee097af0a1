// Package validator statically checks RTL templates before rendering.
//
// Three independent passes run over the template:
//
//   - structural: block balance directly on the token stream, without
//     requiring a successful parse
//   - stage: every referenced variable path against the stage schema,
//     including alias deprecation and required-path coverage
//   - macro: cycle detection across the macro reference graph
//
// Stage diagnostics are always warnings; structural and macro problems are
// errors. A template is safe to render exactly when no error-severity
// diagnostic was produced.
package validator
