package evaluator

import (
	"encoding/json"
	"fmt"
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/resolver"
)

// applyFormatter transforms a resolved value into output text. A formatter
// applied to a value of the wrong shape degrades to plain stringification
// and records a format diagnostic rather than failing the render.
func applyFormatter(v resolver.Value, f ast.Formatter, path string, loc ast.Location, diags *rtlErrors.List) string {
	switch f {
	case ast.FormatterNone:
		return v.Stringify()
	case ast.FormatterList:
		return formatList(v, path, loc, diags)
	case ast.FormatterTable:
		return formatTable(v, path, loc, diags)
	case ast.FormatterTerminology:
		return formatTerminology(v, path, loc, diags)
	case ast.FormatterJSON:
		return formatJSON(v)
	case ast.FormatterInline:
		return formatInline(v)
	}
	return v.Stringify()
}

// degrade records a shape-mismatch diagnostic and falls back to plain
// stringification.
func degrade(v resolver.Value, f ast.Formatter, path string, loc ast.Location, diags *rtlErrors.List) string {
	diags.AddWarning(rtlErrors.CategoryFormat,
		fmt.Sprintf("formatter :%s applied to %s value %q; falling back to plain text", f, v.Kind(), path),
		loc)
	return v.Stringify()
}

// formatList renders a sequence as bullet lines, or a mapping as
// "- key: value" lines.
func formatList(v resolver.Value, path string, loc ast.Location, diags *rtlErrors.List) string {
	switch v.Kind() {
	case resolver.KindSequence:
		lines := make([]string, len(v.Seq()))
		for i, e := range v.Seq() {
			lines[i] = "- " + e.Stringify()
		}
		return strings.Join(lines, "\n")
	case resolver.KindMapping:
		lines := make([]string, len(v.Entries()))
		for i, e := range v.Entries() {
			lines[i] = fmt.Sprintf("- %s: %s", e.Key, e.Value.Stringify())
		}
		return strings.Join(lines, "\n")
	}
	return degrade(v, ast.FormatterList, path, loc, diags)
}

// formatTable renders a mapping as a two-column markdown table.
func formatTable(v resolver.Value, path string, loc ast.Location, diags *rtlErrors.List) string {
	if v.Kind() != resolver.KindMapping {
		return degrade(v, ast.FormatterTable, path, loc, diags)
	}
	rows := []string{"| Term | Translation |", "|------|-------------|"}
	for _, e := range v.Entries() {
		rows = append(rows, fmt.Sprintf("| %s | %s |", e.Key, e.Value.Stringify()))
	}
	return strings.Join(rows, "\n")
}

// formatTerminology renders a glossary mapping as "- term: translation"
// lines, or a sequence as plain bullet lines.
func formatTerminology(v resolver.Value, path string, loc ast.Location, diags *rtlErrors.List) string {
	switch v.Kind() {
	case resolver.KindMapping:
		lines := make([]string, len(v.Entries()))
		for i, e := range v.Entries() {
			lines[i] = fmt.Sprintf("- %s: %s", e.Key, e.Value.Stringify())
		}
		return strings.Join(lines, "\n")
	case resolver.KindSequence:
		lines := make([]string, len(v.Seq()))
		for i, e := range v.Seq() {
			lines[i] = "- " + e.Stringify()
		}
		return strings.Join(lines, "\n")
	}
	return degrade(v, ast.FormatterTerminology, path, loc, diags)
}

// formatJSON encodes any value shape as JSON, keeping mapping order.
func formatJSON(v resolver.Value) string {
	data, err := json.Marshal(v)
	if err != nil {
		return v.Stringify()
	}
	return string(data)
}

// formatInline flattens a value onto a single line: sequences and mappings
// comma separated, strings with newlines collapsed to spaces.
func formatInline(v resolver.Value) string {
	if v.Kind() == resolver.KindString {
		return strings.Join(strings.Fields(v.Str()), " ")
	}
	return v.Stringify()
}
