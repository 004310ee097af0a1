package ast

// Node is a single node in a parsed template tree. Nodes own their children
// exclusively; the tree carries no back-references and is safe to cache and
// render concurrently against different environments.
type Node interface {
	// Pos returns the node's location in the template source.
	Pos() Location
}

// Template is the root of a parsed template: an ordered list of nodes.
type Template struct {
	Nodes []Node
}

// Text is a literal text run emitted unchanged.
type Text struct {
	Content  string
	Location Location
}

// Pos returns the node's source location.
func (n *Text) Pos() Location { return n.Location }

// Formatter names an output transform applied to a resolved value at
// substitution time.
type Formatter string

const (
	FormatterNone        Formatter = ""
	FormatterList        Formatter = "list"        // Bullet list, one line per element
	FormatterTable       Formatter = "table"       // Two-column markdown table
	FormatterTerminology Formatter = "terminology" // "- term: translation" glossary lines
	FormatterJSON        Formatter = "json"        // JSON encoding
	FormatterInline      Formatter = "inline"      // Single line, comma separated
)

// IsValid returns true for one of the five named formatters or none.
func (f Formatter) IsValid() bool {
	switch f {
	case FormatterNone, FormatterList, FormatterTable, FormatterTerminology, FormatterJSON, FormatterInline:
		return true
	}
	return false
}

// VariableRef is a variable substitution tag such as
// {{content.source}}, {{derived.tone | default:"neutral"}}, or
// {{derived.key_terminology:terminology}}.
type VariableRef struct {
	Path       string    // Dotted variable path, possibly a legacy alias
	Formatter  Formatter // Optional output formatter
	Default    string    // Default literal emitted when the path is absent
	HasDefault bool      // Distinguishes default:"" from no default clause
	Location   Location
}

// Pos returns the node's source location.
func (n *VariableRef) Pos() Location { return n.Location }

// CondOp combines the paths of a conditional expression.
type CondOp string

const (
	CondSingle CondOp = ""   // Bare path truthiness
	CondAnd    CondOp = "&&" // Both paths truthy
	CondOr     CondOp = "||" // At least one path truthy
)

// CondExpr is the expression payload of an if/unless block:
// a path, or two paths joined by && or ||.
type CondExpr struct {
	Op    CondOp
	Left  string // First (or only) path
	Right string // Second path when Op is CondAnd or CondOr
}

// Paths returns every path the expression references.
func (e CondExpr) Paths() []string {
	if e.Op == CondSingle {
		return []string{e.Left}
	}
	return []string{e.Left, e.Right}
}

// Conditional is an {{#if}}/{{#unless}} block with an optional else branch.
// For unless, the truthiness test of the (single-path) condition is inverted.
type Conditional struct {
	Condition CondExpr
	Negated   bool // true for {{#unless}}
	Then      []Node
	Else      []Node // nil when no {{#else}} branch is present
	Location  Location
}

// Pos returns the node's source location.
func (n *Conditional) Pos() Location { return n.Location }

// Loop is an {{#each path}} block iterating a sequence or mapping.
// Inside the body, {{this}}, {{@index}} (sequences) and {{@key}} (mappings)
// are bound per iteration.
type Loop struct {
	Source   string // Dotted path of the sequence or mapping to iterate
	Body     []Node
	Location Location
}

// Pos returns the node's source location.
func (n *Loop) Pos() Location { return n.Location }

// MacroRef is an {{@name}} insertion of a named macro body. The body is
// itself a template, parsed and evaluated recursively against the same
// environment.
type MacroRef struct {
	Name     string
	Location Location
}

// Pos returns the node's source location.
func (n *MacroRef) Pos() Location { return n.Location }

// LoopBinding is a reserved loop-scoped reference ({{this}}, {{@index}},
// {{@key}}) resolved from the innermost enclosing each body.
type LoopBinding struct {
	Name     string // "this", "@index", or "@key"
	SubPath  string // Optional trailing path into a mapping-valued "this"
	Location Location
}

// Pos returns the node's source location.
func (n *LoopBinding) Pos() Location { return n.Location }
