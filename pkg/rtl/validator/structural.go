package validator

import (
	"fmt"
	"strings"

	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/lexer"
)

// StructuralValidator checks block balance directly on the token stream.
// It duplicates the parser's guarantee on purpose: templates can be checked
// for structural soundness without building an AST, so editors can validate
// without rendering.
type StructuralValidator struct{}

// NewStructuralValidator creates a structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{}
}

// openBlock tracks one open block frame during the scan.
type openBlock struct {
	keyword string
	token   lexer.Token
}

// Validate scans tokens for unmatched and mismatched block tags and
// misplaced else tags, accumulating error-severity diagnostics.
func (s *StructuralValidator) Validate(tokens []lexer.Token) *rtlErrors.List {
	diags := rtlErrors.NewList()
	var stack []openBlock

	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.KindBlockOpen:
			keyword := tok.Content
			if i := strings.IndexAny(keyword, " \t"); i >= 0 {
				keyword = keyword[:i]
			}
			switch keyword {
			case "if", "unless", "each":
				stack = append(stack, openBlock{keyword: keyword, token: tok})
			case "else":
				if len(stack) == 0 || stack[len(stack)-1].keyword == "each" {
					diags.AddError(rtlErrors.CategoryStructural,
						"misplaced {{#else}}: else is only legal directly inside an if or unless block",
						tok.Location)
				}
			default:
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("unknown block keyword %q", keyword), tok.Location)
			}

		case lexer.KindBlockClose:
			if len(stack) == 0 {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("mismatched block: {{/%s}} at %s closes nothing", tok.Content, tok.Location),
					tok.Location)
				continue
			}
			top := stack[len(stack)-1]
			if tok.Content != top.keyword {
				diags.AddError(rtlErrors.CategoryStructural,
					fmt.Sprintf("mismatched block: {{/%s}} at %s does not close {{#%s}} opened at %s",
						tok.Content, tok.Location, top.keyword, top.token.Location),
					tok.Location)
			}
			stack = stack[:len(stack)-1]
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		diags.AddWithSuggestion(rtlErrors.CategoryStructural, rtlErrors.SeverityError,
			fmt.Sprintf("unclosed block: {{#%s}} opened at %s has no matching {{/%s}}",
				stack[i].keyword, stack[i].token.Location, stack[i].keyword),
			stack[i].token.Location,
			fmt.Sprintf("add {{/%s}}", stack[i].keyword))
	}

	return diags
}
