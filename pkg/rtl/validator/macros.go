package validator

import (
	"fmt"
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/parser"
)

// MacroValidator statically detects cyclic macro definitions reachable from
// a template, so divergent expansions are rejected before any render.
type MacroValidator struct {
	macros map[string]string
}

// NewMacroValidator creates a macro validator over the given macro table
// (built-in defaults with any user-defined overlay already applied).
func NewMacroValidator(macros map[string]string) *MacroValidator {
	return &MacroValidator{macros: macros}
}

// Validate walks the macro reference graph from every macro the template
// inserts. A cycle is an error-severity macro diagnostic naming the chain.
func (m *MacroValidator) Validate(tmpl *ast.Template) *rtlErrors.List {
	diags := rtlErrors.NewList()

	// visiting marks macros on the current DFS path; done marks macros
	// proven acyclic.
	visiting := make(map[string]bool)
	done := make(map[string]bool)

	var visit func(name string, chain []string) bool
	visit = func(name string, chain []string) bool {
		if done[name] {
			return true
		}
		if visiting[name] {
			diags.AddError(rtlErrors.CategoryMacro,
				fmt.Sprintf("cyclic macro definition: %s", strings.Join(append(chain, name), " -> ")),
				ast.Location{})
			return false
		}

		body, ok := m.macros[name]
		if !ok {
			// Unknown macros are a resolution concern at render time.
			return true
		}

		sub, parseDiags := parser.NewParser().Parse(body)
		if sub == nil {
			for _, d := range parseDiags.Diagnostics {
				d.Message = fmt.Sprintf("in macro %q: %s", name, d.Message)
			}
			diags.Merge(parseDiags)
			return false
		}

		visiting[name] = true
		ok = true
		for _, ref := range ast.MacroNames(sub) {
			if !visit(ref, append(chain, name)) {
				ok = false
			}
		}
		delete(visiting, name)
		done[name] = true
		return ok
	}

	for _, name := range ast.MacroNames(tmpl) {
		visit(name, nil)
	}

	return diags
}
