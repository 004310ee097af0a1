package validator

import (
	"fmt"
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/schema"
)

// StageValidator checks every variable path a template references against
// the stage schema: unknown-to-this-stage paths are warnings, and the
// stage's required paths must appear somewhere in the template.
type StageValidator struct {
	stage schema.Stage
}

// NewStageValidator creates a stage validator for the given stage.
func NewStageValidator(stage schema.Stage) *StageValidator {
	return &StageValidator{stage: stage}
}

// Validate runs the stage-appropriateness pass over a parsed template.
// It never produces error-severity diagnostics: stage issues warn the
// template author but do not block rendering.
func (s *StageValidator) Validate(tmpl *ast.Template) *rtlErrors.List {
	diags := rtlErrors.NewList()

	seen := make(map[string]bool)
	for _, ref := range ast.VariablePaths(tmpl) {
		path := ref.Path

		// Loop-scoped references are checked by their enclosing each.
		if path == "this" || strings.HasPrefix(path, "this.") || strings.HasPrefix(path, "@") {
			continue
		}

		canonical, rewritten := schema.ResolveAlias(path, s.stage)
		if rewritten {
			diags.AddWithSuggestion(rtlErrors.CategoryStage, rtlErrors.SeverityWarning,
				fmt.Sprintf("deprecated alias %q used", path), ref.Location,
				fmt.Sprintf("use {{%s}} instead", canonical))
		}
		seen[canonical] = true

		// Subkey lookups are legal when their mapping leaf is.
		lookupPath := canonical
		if parts := strings.Split(canonical, "."); len(parts) > 2 {
			lookupPath = parts[0] + "." + parts[1]
		}

		if !schema.LegalForStage(lookupPath, s.stage) {
			if _, known := schema.LookupVariable(lookupPath); known {
				diags.AddWarning(rtlErrors.CategoryStage,
					fmt.Sprintf("variable %q is not available in the %s stage", canonical, s.stage),
					ref.Location)
			} else {
				diags.AddWarning(rtlErrors.CategoryStage,
					fmt.Sprintf("unknown variable %q", canonical), ref.Location)
			}
		}
	}

	for _, req := range schema.RequiredPaths(s.stage) {
		if !seen[req] {
			diags.AddWithSuggestion(rtlErrors.CategoryStage, rtlErrors.SeverityWarning,
				fmt.Sprintf("required variable %q is never referenced in this %s template", req, s.stage),
				ast.Location{},
				fmt.Sprintf("reference {{%s}} somewhere in the template", req))
		}
	}

	return diags
}
