// Package ast defines the Abstract Syntax Tree for parsed RTL templates.
//
// A template parses into an ordered list of nodes:
//
//   - Text: literal text emitted unchanged
//   - VariableRef: {{ns.leaf}} with optional default and formatter suffixes
//   - Conditional: {{#if expr}}...{{#else}}...{{/if}} and {{#unless}}
//   - Loop: {{#each path}}...{{/each}}
//   - MacroRef: {{@name}}
//   - LoopBinding: {{this}}, {{@index}}, {{@key}} inside a loop body
//
// Nodes own their children exclusively; the tree has no back-references.
// Rendering is a pure function of (tree, environment), so a parsed tree may
// be cached and rendered concurrently against different environments.
//
// Every node carries a Location (line, column, byte offset) for diagnostics.
package ast
