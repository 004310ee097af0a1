// Package rtl is the entry point for the Rosetta Template Language, the
// prompt templating engine used by the translation pipeline.
//
// RTL templates interleave literal text with {{...}} tags: variable
// substitutions with optional formatters and defaults, if/unless/each
// blocks, and @macro insertions. Templates are authored per pipeline stage
// (analysis, translation, optimization, proofreading) and the stage schema
// defines which namespaced variables each stage may reference.
//
// Typical use:
//
//	result := rtl.Validate(text, schema.StageTranslation)
//	if !result.SafeToRender {
//	    // surface result.Diagnostics to the author
//	}
//
//	r := rtl.NewRenderer(schema.StageTranslation)
//	out, diags, err := r.Render(text, env)
//
// Subpackages hold the machinery: lexer and parser build the AST, validator
// runs the static passes, resolver holds the namespaced environment, and
// evaluator renders. Most callers need only this package plus schema and
// resolver.
package rtl
