package lexer

import "rosetta-hq/rosetta/pkg/rtl/ast"

// Kind discriminates token types produced by the lexer.
type Kind string

const (
	// KindText is a literal text run between tags.
	KindText Kind = "TEXT"
	// KindVar is a variable substitution tag: {{path...}}.
	KindVar Kind = "VAR"
	// KindBlockOpen is a block opening tag: {{#keyword expr}}.
	KindBlockOpen Kind = "BLOCK_OPEN"
	// KindBlockClose is a block closing tag: {{/keyword}}.
	KindBlockClose Kind = "BLOCK_CLOSE"
	// KindMacro is a macro insertion tag: {{@name}}.
	KindMacro Kind = "MACRO"
)

// Token is a single lexical unit of a template. For tag tokens, Content is
// the trimmed inner text without the delimiters or the leading #, /, or @
// marker; for text tokens it is the literal run.
type Token struct {
	Kind     Kind
	Content  string
	Location ast.Location
}
