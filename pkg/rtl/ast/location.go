package ast

import "fmt"

// Location identifies a position inside a template's source text.
// It enables precise diagnostics with line, column, and byte offset.
type Location struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based, in bytes)
	Offset int // Byte offset from the start of the template (0-based)
}

// String returns a human-readable representation of the location.
// Format: "line:column"
func (l Location) String() string {
	if !l.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// IsValid returns true if the location carries real position information.
func (l Location) IsValid() bool {
	return l.Line > 0
}
