package parser

import (
	"fmt"
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/lexer"
)

// parseVarTag parses the inside of a {{...}} variable tag: a dotted path
// followed by at most one ":formatter" suffix and at most one
// `| default:"literal"` suffix, in either order. Returns nil after
// recording a diagnostic when the tag is malformed.
func (p *Parser) parseVarTag(tok lexer.Token, diags *rtlErrors.List) ast.Node {
	s := scanner{input: tok.Content}
	s.skipSpace()

	path := s.readPath()
	if !isPath(path) {
		diags.AddError(rtlErrors.CategoryStructural,
			fmt.Sprintf("invalid variable path %q", strings.TrimSpace(tok.Content)), tok.Location)
		return nil
	}

	var formatter ast.Formatter
	var defaultLit string
	hasFormatter := false
	hasDefault := false

	for {
		s.skipSpace()
		if s.done() {
			break
		}

		switch s.peek() {
		case ':':
			if hasFormatter {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("multiple formatter clauses on %q: at most one :formatter is allowed", path),
					tok.Location)
				return nil
			}
			s.next()
			name := s.readIdent()
			formatter = ast.Formatter(name)
			if name == "" || !formatter.IsValid() {
				diags.AddWithSuggestion(rtlErrors.CategoryStructural, rtlErrors.SeverityError,
					fmt.Sprintf("unknown formatter %q on %q", name, path), tok.Location,
					"formatters are :list, :table, :terminology, :json, :inline")
				return nil
			}
			hasFormatter = true

		case '|':
			if hasDefault {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("multiple default clauses on %q: at most one | default:\"...\" is allowed", path),
					tok.Location)
				return nil
			}
			s.next()
			s.skipSpace()
			if kw := s.readIdent(); kw != "default" {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("unexpected clause %q on %q: only | default:\"...\" is supported", kw, path),
					tok.Location)
				return nil
			}
			if s.peek() != ':' {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("malformed default clause on %q: expected default:\"literal\"", path),
					tok.Location)
				return nil
			}
			s.next()
			lit, ok := s.readQuoted()
			if !ok {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("malformed default literal on %q: expected a double-quoted string", path),
					tok.Location)
				return nil
			}
			defaultLit = lit
			hasDefault = true

		default:
			diags.AddError(rtlErrors.CategoryStructural,
				fmt.Sprintf("unexpected trailing content %q in variable tag", s.rest()), tok.Location)
			return nil
		}
	}

	// "this" and "this.sub" are loop bindings, not environment lookups.
	if path == "this" || strings.HasPrefix(path, "this.") {
		binding := &ast.LoopBinding{Name: "this", Location: tok.Location}
		if strings.HasPrefix(path, "this.") {
			binding.SubPath = strings.TrimPrefix(path, "this.")
		}
		return binding
	}

	return &ast.VariableRef{
		Path:       path,
		Formatter:  formatter,
		Default:    defaultLit,
		HasDefault: hasDefault,
		Location:   tok.Location,
	}
}

// scanner is a minimal cursor over a variable tag's inner text.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) done() bool { return s.pos >= len(s.input) }

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.input[s.pos]
}

func (s *scanner) next() byte {
	c := s.peek()
	s.pos++
	return c
}

func (s *scanner) rest() string { return s.input[s.pos:] }

func (s *scanner) skipSpace() {
	for !s.done() && (s.input[s.pos] == ' ' || s.input[s.pos] == '\t') {
		s.pos++
	}
}

// readPath consumes a dotted path: identifiers and dots.
func (s *scanner) readPath() string {
	start := s.pos
	for !s.done() {
		c := s.input[s.pos]
		if c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			s.pos++
			continue
		}
		break
	}
	return s.input[start:s.pos]
}

// readIdent consumes a bare identifier.
func (s *scanner) readIdent() string {
	start := s.pos
	for !s.done() {
		c := s.input[s.pos]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			s.pos++
			continue
		}
		break
	}
	return s.input[start:s.pos]
}

// readQuoted consumes a double-quoted literal, honoring \" and \\ escapes.
func (s *scanner) readQuoted() (string, bool) {
	s.skipSpace()
	if s.peek() != '"' {
		return "", false
	}
	s.next()

	var sb strings.Builder
	for !s.done() {
		c := s.next()
		switch c {
		case '\\':
			if s.done() {
				return "", false
			}
			esc := s.next()
			switch esc {
			case '"', '\\':
				sb.WriteByte(esc)
			case 'n':
				sb.WriteByte('\n')
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
		case '"':
			return sb.String(), true
		default:
			sb.WriteByte(c)
		}
	}
	return "", false
}
