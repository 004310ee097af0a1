package parser

import (
	"fmt"
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/lexer"
)

// Block keywords recognized in {{#...}} tags.
const (
	keywordIf     = "if"
	keywordUnless = "unless"
	keywordEach   = "each"
	keywordElse   = "else"
)

// Parser consumes a token stream into an AST. It is a recursive-descent
// parser over a flat token list, with a frame stack for block nesting.
type Parser struct {
	maxTemplateSize int // Maximum template size in bytes
	maxNesting      int // Maximum block nesting depth
}

// NewParser creates a parser with default limits.
func NewParser() *Parser {
	return &Parser{
		maxTemplateSize: 1 * 1024 * 1024, // 1MB
		maxNesting:      10,
	}
}

// WithMaxTemplateSize sets the maximum template size in bytes.
func (p *Parser) WithMaxTemplateSize(size int) *Parser {
	p.maxTemplateSize = size
	return p
}

// WithMaxNesting sets the maximum block nesting depth.
func (p *Parser) WithMaxNesting(depth int) *Parser {
	p.maxNesting = depth
	return p
}

// Parse lexes and parses template text. The returned diagnostic list holds
// every lexical and structural problem found; the template is nil when any
// of them has error severity.
func (p *Parser) Parse(text string) (*ast.Template, *rtlErrors.List) {
	diags := rtlErrors.NewList()

	if len(text) > p.maxTemplateSize {
		diags.AddError(rtlErrors.CategoryStructural,
			fmt.Sprintf("template size %d exceeds maximum %d bytes", len(text), p.maxTemplateSize),
			ast.Location{})
		return nil, diags
	}

	tokens, lexDiags := lexer.Tokenize(text)
	diags.Merge(lexDiags)

	tmpl, parseDiags := p.ParseTokens(tokens)
	diags.Merge(parseDiags)

	if diags.HasErrors() {
		return nil, diags
	}
	return tmpl, diags
}

// frame is one open block on the parsing stack.
type frame struct {
	keyword  string       // if, unless, or each
	node     ast.Node     // The block node under construction
	children []ast.Node   // Accumulated children (then-branch for if/unless)
	elseWhen []ast.Node   // Children after {{#else}}; nil until else is seen
	sawElse  bool         // Whether {{#else}} has occurred in this frame
	location ast.Location // Where the block opened
}

// ParseTokens parses an already-lexed token stream.
func (p *Parser) ParseTokens(tokens []lexer.Token) (*ast.Template, *rtlErrors.List) {
	diags := rtlErrors.NewList()

	root := &frame{}
	stack := []*frame{root}
	top := func() *frame { return stack[len(stack)-1] }

	appendNode := func(n ast.Node) {
		f := top()
		if f.sawElse {
			f.elseWhen = append(f.elseWhen, n)
		} else {
			f.children = append(f.children, n)
		}
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.KindText:
			appendNode(&ast.Text{Content: tok.Content, Location: tok.Location})

		case lexer.KindVar:
			if node := p.parseVarTag(tok, diags); node != nil {
				appendNode(node)
			}

		case lexer.KindMacro:
			appendNode(p.parseMacroTag(tok))

		case lexer.KindBlockOpen:
			keyword, expr := splitKeyword(tok.Content)
			switch keyword {
			case keywordElse:
				f := top()
				if f == root || (f.keyword != keywordIf && f.keyword != keywordUnless) {
					diags.AddError(rtlErrors.CategoryStructural,
						"misplaced {{#else}}: else is only legal directly inside an if or unless block",
						tok.Location)
					continue
				}
				if f.sawElse {
					diags.AddError(rtlErrors.CategoryStructural,
						"duplicate {{#else}} in the same block", tok.Location)
					continue
				}
				f.sawElse = true

			case keywordIf, keywordUnless:
				if len(stack)-1 >= p.maxNesting {
					diags.AddError(rtlErrors.CategoryStructural,
						fmt.Sprintf("block nesting exceeds maximum depth %d", p.maxNesting), tok.Location)
					continue
				}
				cond, ok := p.parseCondExpr(keyword, expr, tok.Location, diags)
				if !ok {
					continue
				}
				node := &ast.Conditional{
					Condition: cond,
					Negated:   keyword == keywordUnless,
					Location:  tok.Location,
				}
				stack = append(stack, &frame{keyword: keyword, node: node, location: tok.Location})

			case keywordEach:
				if len(stack)-1 >= p.maxNesting {
					diags.AddError(rtlErrors.CategoryStructural,
						fmt.Sprintf("block nesting exceeds maximum depth %d", p.maxNesting), tok.Location)
					continue
				}
				source := strings.TrimSpace(expr)
				if !isPath(source) {
					diags.AddError(rtlErrors.CategoryStructural,
						fmt.Sprintf("invalid each source %q: expected a dotted variable path", source),
						tok.Location)
					continue
				}
				node := &ast.Loop{Source: source, Location: tok.Location}
				stack = append(stack, &frame{keyword: keywordEach, node: node, location: tok.Location})

			default:
				diags.AddWithSuggestion(rtlErrors.CategoryStructural, rtlErrors.SeverityError,
					fmt.Sprintf("unknown block keyword %q", keyword), tok.Location,
					"supported blocks are if, unless, each, and else")
			}

		case lexer.KindBlockClose:
			keyword := strings.TrimSpace(tok.Content)
			f := top()
			if f == root {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("mismatched block: {{/%s}} at %s closes nothing", keyword, tok.Location),
					tok.Location)
				continue
			}
			if keyword != f.keyword {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("mismatched block: {{/%s}} at %s does not close {{#%s}} opened at %s",
						keyword, tok.Location, f.keyword, f.location),
					tok.Location)
				// Close the frame anyway so one mistake does not cascade.
			}

			stack = stack[:len(stack)-1]
			switch node := f.node.(type) {
			case *ast.Conditional:
				node.Then = f.children
				if f.sawElse {
					node.Else = f.elseWhen
				}
				appendNode(node)
			case *ast.Loop:
				node.Body = f.children
				appendNode(node)
			}
		}
	}

	// Anything still open at end of input is an unclosed block.
	for i := len(stack) - 1; i >= 1; i-- {
		f := stack[i]
		diags.AddWithSuggestion(rtlErrors.CategoryStructural, rtlErrors.SeverityError,
			fmt.Sprintf("unclosed block: {{#%s}} opened at %s has no matching {{/%s}}",
				f.keyword, f.location, f.keyword),
			f.location,
			fmt.Sprintf("add {{/%s}}", f.keyword))
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return &ast.Template{Nodes: root.children}, diags
}

// parseMacroTag classifies a {{@...}} tag: the reserved loop bindings
// @index and @key, or a macro insertion.
func (p *Parser) parseMacroTag(tok lexer.Token) ast.Node {
	name := strings.TrimSpace(tok.Content)
	switch name {
	case "index":
		return &ast.LoopBinding{Name: "@index", Location: tok.Location}
	case "key":
		return &ast.LoopBinding{Name: "@key", Location: tok.Location}
	default:
		return &ast.MacroRef{Name: name, Location: tok.Location}
	}
}

// parseCondExpr parses the expression payload of an if/unless block:
// path, path && path, or path || path. Unless accepts a single path only.
func (p *Parser) parseCondExpr(keyword, expr string, loc ast.Location, diags *rtlErrors.List) (ast.CondExpr, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		diags.AddError(rtlErrors.CategoryStructural,
			fmt.Sprintf("empty condition in {{#%s}}", keyword), loc)
		return ast.CondExpr{}, false
	}

	var op ast.CondOp
	var parts []string
	switch {
	case strings.Contains(expr, "&&"):
		op = ast.CondAnd
		parts = strings.SplitN(expr, "&&", 2)
	case strings.Contains(expr, "||"):
		op = ast.CondOr
		parts = strings.SplitN(expr, "||", 2)
	default:
		op = ast.CondSingle
		parts = []string{expr}
	}

	if op != ast.CondSingle && keyword == keywordUnless {
		diags.AddError(rtlErrors.CategoryStructural,
			"unless takes a single path: combinators && and || are not allowed", loc)
		return ast.CondExpr{}, false
	}

	cond := ast.CondExpr{Op: op}
	cond.Left = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		cond.Right = strings.TrimSpace(parts[1])
	}

	for _, path := range cond.Paths() {
		if !isPath(path) {
			diags.AddError(rtlErrors.CategoryStructural,
				fmt.Sprintf("invalid condition path %q in {{#%s}}", path, keyword), loc)
			return ast.CondExpr{}, false
		}
	}
	return cond, true
}

// splitKeyword separates a block tag's keyword from its expression payload.
func splitKeyword(content string) (keyword, expr string) {
	content = strings.TrimSpace(content)
	if i := strings.IndexAny(content, " \t"); i >= 0 {
		return content[:i], strings.TrimSpace(content[i+1:])
	}
	return content, ""
}

// isPath reports whether s is a well-formed dotted variable path:
// identifiers separated by dots, e.g. "derived.writing_style".
func isPath(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ".") {
		if !isIdent(seg) {
			return false
		}
	}
	return true
}

// isIdent reports whether s is a single path segment: letters, digits, and
// underscores, not starting with a digit.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
