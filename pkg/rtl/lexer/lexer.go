package lexer

import (
	"fmt"
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Lexer converts raw template text into a flat token stream. Scanning is a
// single pass, linear in the input length, with no nesting awareness; block
// matching is the parser's job.
type Lexer struct {
	input  string
	pos    int // Byte offset of the next unread byte
	line   int // Current line (1-based)
	column int // Current column (1-based, bytes)
}

// New creates a lexer over the given template text.
func New(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
}

// Tokenize scans the whole input and returns the token stream together with
// any lexical diagnostics. An unmatched opening delimiter is an
// error-severity diagnostic carrying the offending offset; the tokens
// scanned before the error are still returned.
func Tokenize(input string) ([]Token, *rtlErrors.List) {
	return New(input).All()
}

// All scans every token from the current position to end of input.
func (l *Lexer) All() ([]Token, *rtlErrors.List) {
	var tokens []Token
	diags := rtlErrors.NewList()

	for l.pos < len(l.input) {
		rest := l.input[l.pos:]

		idx := strings.Index(rest, openDelim)
		if idx < 0 {
			tokens = append(tokens, Token{
				Kind:     KindText,
				Content:  rest,
				Location: l.here(),
			})
			l.advance(len(rest))
			break
		}

		if idx > 0 {
			tokens = append(tokens, Token{
				Kind:     KindText,
				Content:  rest[:idx],
				Location: l.here(),
			})
			l.advance(idx)
		}

		tagLoc := l.here()
		inner := l.input[l.pos+len(openDelim):]
		end := strings.Index(inner, closeDelim)
		if end < 0 {
			diags.AddWithSuggestion(
				rtlErrors.CategoryLexical,
				rtlErrors.SeverityError,
				fmt.Sprintf("unterminated tag: %q opened at offset %d has no matching %q", openDelim, tagLoc.Offset, closeDelim),
				tagLoc,
				"close the tag with }}",
			)
			// Consume the rest so callers see a complete scan.
			l.advance(len(l.input) - l.pos)
			break
		}

		tokens = append(tokens, l.tagToken(inner[:end], tagLoc))
		l.advance(len(openDelim) + end + len(closeDelim))
	}

	return tokens, diags
}

// tagToken classifies the inner text of a {{...}} tag.
func (l *Lexer) tagToken(inner string, loc ast.Location) Token {
	content := strings.TrimSpace(inner)

	switch {
	case strings.HasPrefix(content, "#"):
		return Token{Kind: KindBlockOpen, Content: strings.TrimSpace(content[1:]), Location: loc}
	case strings.HasPrefix(content, "/"):
		return Token{Kind: KindBlockClose, Content: strings.TrimSpace(content[1:]), Location: loc}
	case strings.HasPrefix(content, "@"):
		return Token{Kind: KindMacro, Content: strings.TrimSpace(content[1:]), Location: loc}
	default:
		return Token{Kind: KindVar, Content: content, Location: loc}
	}
}

// here returns the location of the next unread byte.
func (l *Lexer) here() ast.Location {
	return ast.Location{Line: l.line, Column: l.column, Offset: l.pos}
}

// advance consumes n bytes, updating line and column counters.
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}
