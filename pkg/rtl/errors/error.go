package errors

import (
	"fmt"
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/ast"
)

// Category classifies a diagnostic produced while lexing, parsing,
// validating, or rendering a template.
type Category string

const (
	CategoryLexical    Category = "lexical"    // Unterminated tag, bad delimiter
	CategoryStructural Category = "structural" // Unclosed/mismatched block, malformed suffix
	CategoryResolution Category = "resolution" // Unknown path, missing optional variable
	CategoryStage      Category = "stage"      // Variable not legal/required in this stage
	CategoryMacro      Category = "macro"      // Macro cycle or excessive recursion
	CategoryFormat     Category = "format"     // Formatter applied to a value of the wrong shape
)

// Severity ranks a diagnostic. Only error-severity diagnostics make a
// template unsafe to render.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a single problem found in a template. Diagnostics are
// collected and returned to the caller rather than raised; the caller
// decides how to surface them.
type Diagnostic struct {
	Category   Category     // Category of problem
	Severity   Severity     // warning or error
	Message    string       // Human-readable message
	Location   ast.Location // Source location within the template
	Suggestion string       // Suggested fix (optional)
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s/%s] %s", d.Category, d.Severity, d.Message))

	if d.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", d.Location.String()))
	}

	if d.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", d.Suggestion))
	}

	return sb.String()
}

// IsError returns true if the diagnostic has error severity.
func (d *Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// List accumulates diagnostics instead of failing on the first problem,
// so editor tooling can show every issue in one pass.
type List struct {
	Diagnostics []*Diagnostic
}

// NewList creates a new empty diagnostic list.
func NewList() *List {
	return &List{
		Diagnostics: make([]*Diagnostic, 0),
	}
}

// Add appends a diagnostic to the list.
func (l *List) Add(d *Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, d)
}

// AddError creates and adds an error-severity diagnostic.
func (l *List) AddError(cat Category, message string, loc ast.Location) {
	l.Add(&Diagnostic{
		Category: cat,
		Severity: SeverityError,
		Message:  message,
		Location: loc,
	})
}

// AddWarning creates and adds a warning-severity diagnostic.
func (l *List) AddWarning(cat Category, message string, loc ast.Location) {
	l.Add(&Diagnostic{
		Category: cat,
		Severity: SeverityWarning,
		Message:  message,
		Location: loc,
	})
}

// AddWithSuggestion creates and adds a diagnostic carrying a suggested fix.
func (l *List) AddWithSuggestion(cat Category, sev Severity, message string, loc ast.Location, suggestion string) {
	l.Add(&Diagnostic{
		Category:   cat,
		Severity:   sev,
		Message:    message,
		Location:   loc,
		Suggestion: suggestion,
	})
}

// Merge appends all diagnostics from another list.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.Diagnostics = append(l.Diagnostics, other.Diagnostics...)
}

// HasErrors returns true if any diagnostic has error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// HasCategory returns true if the list contains at least one diagnostic of
// the given category.
func (l *List) HasCategory(cat Category) bool {
	for _, d := range l.Diagnostics {
		if d.Category == cat {
			return true
		}
	}
	return false
}

// ByCategory returns all diagnostics of the given category.
func (l *List) ByCategory(cat Category) []*Diagnostic {
	var result []*Diagnostic
	for _, d := range l.Diagnostics {
		if d.Category == cat {
			result = append(result, d)
		}
	}
	return result
}

// Errors returns only the error-severity diagnostics.
func (l *List) Errors() []*Diagnostic {
	var result []*Diagnostic
	for _, d := range l.Diagnostics {
		if d.IsError() {
			result = append(result, d)
		}
	}
	return result
}

// Warnings returns only the warning-severity diagnostics.
func (l *List) Warnings() []*Diagnostic {
	var result []*Diagnostic
	for _, d := range l.Diagnostics {
		if !d.IsError() {
			result = append(result, d)
		}
	}
	return result
}

// Count returns the number of diagnostics in the list.
func (l *List) Count() int {
	return len(l.Diagnostics)
}

// Error implements the error interface, formatting every diagnostic.
func (l *List) Error() string {
	if l.Count() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d diagnostic(s):\n", l.Count()))

	for i, d := range l.Diagnostics {
		sb.WriteString(fmt.Sprintf("%d: %s\n", i+1, d.Error()))
	}

	return sb.String()
}

// ToError returns nil if the list contains no error-severity diagnostics,
// otherwise returns the list itself. Warnings alone never produce an error.
func (l *List) ToError() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}
