package rtl

import (
	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/evaluator"
	"rosetta-hq/rosetta/pkg/rtl/parser"
	"rosetta-hq/rosetta/pkg/rtl/resolver"
	"rosetta-hq/rosetta/pkg/rtl/schema"
	"rosetta-hq/rosetta/pkg/rtl/validator"
)

// Parse parses template text into an AST without stage checking.
// Use this to inspect the tree before validation.
func Parse(text string) (*ast.Template, *rtlErrors.List) {
	return parser.NewParser().Parse(text)
}

// Validate runs every static pass over template text for the given stage.
func Validate(text string, stage schema.Stage) *validator.Result {
	return validator.NewValidator(stage).Validate(text)
}

// Renderer binds a pipeline stage and macro table, exposing the full
// parse-validate-render flow as one call. A Renderer is immutable after
// construction and safe for concurrent use.
type Renderer struct {
	stage   schema.Stage
	macros  map[string]string
	depth   int
	maxSize int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMacros overlays user-defined macros on the built-in defaults. User
// macros shadow built-ins of the same name.
func WithMacros(user map[string]string) Option {
	return func(r *Renderer) {
		for name, body := range user {
			r.macros[name] = body
		}
	}
}

// WithMaxMacroDepth sets the macro expansion depth bound.
func WithMaxMacroDepth(depth int) Option {
	return func(r *Renderer) {
		if depth > 0 {
			r.depth = depth
		}
	}
}

// WithMaxTemplateSize sets the maximum template size in bytes.
func WithMaxTemplateSize(size int) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.maxSize = size
		}
	}
}

// NewRenderer creates a renderer for the given stage.
func NewRenderer(stage schema.Stage, opts ...Option) *Renderer {
	r := &Renderer{
		stage:  stage,
		macros: schema.DefaultMacros(),
		depth:  evaluator.DefaultMaxMacroDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stage returns the pipeline stage this renderer serves.
func (r *Renderer) Stage() schema.Stage { return r.stage }

// Render parses, validates, and evaluates template text against an
// environment. The diagnostic list carries every warning and error found;
// the error return is non-nil exactly when rendering produced no usable
// text (structural errors, macro cycles). Warnings alone never fail a
// render.
func (r *Renderer) Render(text string, env *resolver.Environment) (string, *rtlErrors.List, error) {
	diags := rtlErrors.NewList()

	p := parser.NewParser()
	if r.maxSize > 0 {
		p = p.WithMaxTemplateSize(r.maxSize)
	}
	tmpl, parseDiags := p.Parse(text)
	diags.Merge(parseDiags)
	if tmpl == nil {
		return "", diags, diags.ToError()
	}

	diags.Merge(validator.NewStageValidator(r.stage).Validate(tmpl))
	diags.Merge(validator.NewMacroValidator(r.macros).Validate(tmpl))
	if diags.HasErrors() {
		return "", diags, diags.ToError()
	}

	ev := evaluator.New(r.stage).
		WithMacros(r.macros).
		WithMaxMacroDepth(r.depth)
	out, evalDiags := ev.Evaluate(tmpl, env)
	diags.Merge(evalDiags)
	diags = dedupe(diags)
	if diags.HasErrors() {
		return "", diags, diags.ToError()
	}
	return out, diags, nil
}

// dedupe drops diagnostics the static and render passes both reported,
// keyed on category, message, and location.
func dedupe(diags *rtlErrors.List) *rtlErrors.List {
	type key struct {
		cat rtlErrors.Category
		msg string
		loc ast.Location
	}
	seen := make(map[key]bool)
	out := rtlErrors.NewList()
	for _, d := range diags.Diagnostics {
		k := key{cat: d.Category, msg: d.Message, loc: d.Location}
		if seen[k] {
			continue
		}
		seen[k] = true
		out.Add(d)
	}
	return out
}
