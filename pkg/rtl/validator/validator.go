package validator

import (
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/lexer"
	"rosetta-hq/rosetta/pkg/rtl/parser"
	"rosetta-hq/rosetta/pkg/rtl/schema"
)

// Validator is the static analysis pass run before rendering. It needs no
// variable environment, so editor tooling can validate a template the
// moment it is written. Lexical and parse errors surface through the same
// diagnostics channel as stage warnings, giving one complete report.
type Validator struct {
	stage      schema.Stage
	structural *StructuralValidator
	stageCheck *StageValidator
	macros     map[string]string
}

// Result is the outcome of a validation pass: the complete diagnostics list
// and whether the template is safe to render (derived solely from the
// presence of error-severity diagnostics).
type Result struct {
	Diagnostics  *rtlErrors.List
	SafeToRender bool
}

// NewValidator creates a validator for the given stage with the built-in
// default macro table.
func NewValidator(stage schema.Stage) *Validator {
	return &Validator{
		stage:      stage,
		structural: NewStructuralValidator(),
		stageCheck: NewStageValidator(stage),
		macros:     schema.DefaultMacros(),
	}
}

// WithMacros overlays user-defined macros for cycle checking. User macros
// shadow built-ins of the same name.
func (v *Validator) WithMacros(user map[string]string) *Validator {
	for name, body := range user {
		v.macros[name] = body
	}
	return v
}

// Validate runs every static pass over template text. Warnings never make
// the result unsafe; only lexical, structural, macro-cycle, and malformed
// suffix errors do.
func (v *Validator) Validate(text string) *Result {
	diags := rtlErrors.NewList()

	tokens, lexDiags := lexer.Tokenize(text)
	diags.Merge(lexDiags)

	// Independent block-balance check on the raw token stream.
	diags.Merge(v.structural.Validate(tokens))

	tmpl, parseDiags := parser.NewParser().ParseTokens(tokens)
	// The parser re-detects the structural problems found above; keep only
	// its suffix/path diagnostics to avoid duplicate reports.
	for _, d := range parseDiags.Diagnostics {
		if !hasStructuralDuplicate(diags, d) {
			diags.Add(d)
		}
	}

	if tmpl != nil {
		diags.Merge(v.stageCheck.Validate(tmpl))
		diags.Merge(NewMacroValidator(v.macros).Validate(tmpl))
	}

	return &Result{
		Diagnostics:  diags,
		SafeToRender: !diags.HasErrors(),
	}
}

// hasStructuralDuplicate reports whether an equivalent structural
// diagnostic is already recorded at the same location.
func hasStructuralDuplicate(diags *rtlErrors.List, d *rtlErrors.Diagnostic) bool {
	if d.Category != rtlErrors.CategoryStructural {
		return false
	}
	for _, existing := range diags.Diagnostics {
		if existing.Category == rtlErrors.CategoryStructural &&
			existing.Location == d.Location &&
			existing.Message == d.Message {
			return true
		}
	}
	return false
}
