package parser

import (
	"testing"

	"rosetta-hq/rosetta/pkg/rtl/ast"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
)

func TestParse_Structures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, tmpl *ast.Template)
	}{
		{
			name:  "text and variable",
			input: "Translate: {{content.source}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				if len(tmpl.Nodes) != 2 {
					t.Fatalf("got %d nodes, want 2", len(tmpl.Nodes))
				}
				v, ok := tmpl.Nodes[1].(*ast.VariableRef)
				if !ok {
					t.Fatalf("node 1 is %T, want *ast.VariableRef", tmpl.Nodes[1])
				}
				if v.Path != "content.source" {
					t.Errorf("path = %q, want content.source", v.Path)
				}
			},
		},
		{
			name:  "if with else",
			input: "{{#if derived.tone}}T{{#else}}F{{/if}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				c, ok := tmpl.Nodes[0].(*ast.Conditional)
				if !ok {
					t.Fatalf("node 0 is %T, want *ast.Conditional", tmpl.Nodes[0])
				}
				if c.Negated {
					t.Error("if parsed as negated")
				}
				if len(c.Then) != 1 || len(c.Else) != 1 {
					t.Errorf("then/else lengths = %d/%d, want 1/1", len(c.Then), len(c.Else))
				}
			},
		},
		{
			name:  "unless",
			input: "{{#unless derived.has_analysis}}no analysis{{/unless}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				c := tmpl.Nodes[0].(*ast.Conditional)
				if !c.Negated {
					t.Error("unless did not set Negated")
				}
			},
		},
		{
			name:  "and condition",
			input: "{{#if derived.writing_style && derived.tone}}both{{/if}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				c := tmpl.Nodes[0].(*ast.Conditional)
				if c.Condition.Op != ast.CondAnd {
					t.Errorf("op = %v, want CondAnd", c.Condition.Op)
				}
				if c.Condition.Left != "derived.writing_style" || c.Condition.Right != "derived.tone" {
					t.Errorf("paths = %q/%q", c.Condition.Left, c.Condition.Right)
				}
			},
		},
		{
			name:  "or condition",
			input: "{{#if derived.tone || user.style_hint}}x{{/if}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				c := tmpl.Nodes[0].(*ast.Conditional)
				if c.Condition.Op != ast.CondOr {
					t.Errorf("op = %v, want CondOr", c.Condition.Op)
				}
			},
		},
		{
			name:  "each with loop bindings",
			input: "{{#each derived.key_terminology}}{{@key}}: {{this}}{{/each}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				l, ok := tmpl.Nodes[0].(*ast.Loop)
				if !ok {
					t.Fatalf("node 0 is %T, want *ast.Loop", tmpl.Nodes[0])
				}
				if l.Source != "derived.key_terminology" {
					t.Errorf("source = %q", l.Source)
				}
				if len(l.Body) != 3 {
					t.Fatalf("body has %d nodes, want 3", len(l.Body))
				}
				key := l.Body[0].(*ast.LoopBinding)
				if key.Name != "@key" {
					t.Errorf("binding 0 = %q, want @key", key.Name)
				}
				this := l.Body[2].(*ast.LoopBinding)
				if this.Name != "this" || this.SubPath != "" {
					t.Errorf("binding 2 = %q/%q, want this", this.Name, this.SubPath)
				}
			},
		},
		{
			name:  "this with subpath",
			input: "{{#each user.characters}}{{this.name}}{{/each}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				l := tmpl.Nodes[0].(*ast.Loop)
				b := l.Body[0].(*ast.LoopBinding)
				if b.Name != "this" || b.SubPath != "name" {
					t.Errorf("binding = %q/%q, want this/name", b.Name, b.SubPath)
				}
			},
		},
		{
			name:  "macro reference",
			input: "{{@style_guide}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				m, ok := tmpl.Nodes[0].(*ast.MacroRef)
				if !ok {
					t.Fatalf("node 0 is %T, want *ast.MacroRef", tmpl.Nodes[0])
				}
				if m.Name != "style_guide" {
					t.Errorf("name = %q", m.Name)
				}
			},
		},
		{
			name:  "nested blocks",
			input: "{{#if derived.has_terminology}}{{#each derived.key_terminology}}{{this}}{{/each}}{{/if}}",
			check: func(t *testing.T, tmpl *ast.Template) {
				c := tmpl.Nodes[0].(*ast.Conditional)
				if _, ok := c.Then[0].(*ast.Loop); !ok {
					t.Errorf("nested node is %T, want *ast.Loop", c.Then[0])
				}
			},
		},
		{
			name:    "unclosed if",
			input:   "{{#if derived.tone}}never closed",
			wantErr: true,
		},
		{
			name:    "mismatched close",
			input:   "{{#if derived.tone}}x{{/each}}",
			wantErr: true,
		},
		{
			name:    "close without open",
			input:   "text {{/if}}",
			wantErr: true,
		},
		{
			name:    "misplaced else",
			input:   "{{#else}}",
			wantErr: true,
		},
		{
			name:    "else inside each",
			input:   "{{#each user.items}}{{#else}}{{/each}}",
			wantErr: true,
		},
		{
			name:    "duplicate else",
			input:   "{{#if derived.tone}}a{{#else}}b{{#else}}c{{/if}}",
			wantErr: true,
		},
		{
			name:    "unless with combinator",
			input:   "{{#unless a.b && c.d}}x{{/unless}}",
			wantErr: true,
		},
		{
			name:    "unknown block keyword",
			input:   "{{#with content.source}}x{{/with}}",
			wantErr: true,
		},
		{
			name:    "empty condition",
			input:   "{{#if}}x{{/if}}",
			wantErr: true,
		},
		{
			name:    "unterminated tag",
			input:   "{{content.source",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, diags := NewParser().Parse(tt.input)

			if tt.wantErr {
				if !diags.HasErrors() {
					t.Fatal("expected error diagnostics, got none")
				}
				if tmpl != nil {
					t.Error("template should be nil when errors are present")
				}
				return
			}

			if diags.HasErrors() {
				t.Fatalf("unexpected errors: %v", diags)
			}
			if tmpl == nil {
				t.Fatal("template is nil without errors")
			}
			if tt.check != nil {
				tt.check(t, tmpl)
			}
		})
	}
}

func TestParse_VarSuffixes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		formatter ast.Formatter
		def       string
		hasDef    bool
	}{
		{
			name:      "formatter only",
			input:     "{{derived.key_terminology:table}}",
			formatter: ast.FormatterTable,
		},
		{
			name:   "default only",
			input:  `{{derived.tone | default:"neutral"}}`,
			def:    "neutral",
			hasDef: true,
		},
		{
			name:      "formatter then default",
			input:     `{{derived.priority_order:list | default:"none"}}`,
			formatter: ast.FormatterList,
			def:       "none",
			hasDef:    true,
		},
		{
			name:   "empty default literal",
			input:  `{{derived.tone | default:""}}`,
			hasDef: true,
		},
		{
			name:   "escaped quotes in default",
			input:  `{{derived.tone | default:"say \"hi\""}}`,
			def:    `say "hi"`,
			hasDef: true,
		},
		{
			name:    "unknown formatter",
			input:   "{{content.source:shout}}",
			wantErr: true,
		},
		{
			name:    "duplicate formatter",
			input:   "{{content.source:list:table}}",
			wantErr: true,
		},
		{
			name:    "duplicate default",
			input:   `{{derived.tone | default:"a" | default:"b"}}`,
			wantErr: true,
		},
		{
			name:    "unquoted default",
			input:   "{{derived.tone | default:neutral}}",
			wantErr: true,
		},
		{
			name:    "unknown clause",
			input:   `{{derived.tone | fallback:"x"}}`,
			wantErr: true,
		},
		{
			name:    "empty path",
			input:   "{{}}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, diags := NewParser().Parse(tt.input)

			if tt.wantErr {
				if !diags.HasErrors() {
					t.Fatal("expected error diagnostics, got none")
				}
				if !diags.HasCategory(rtlErrors.CategoryStructural) {
					t.Errorf("expected a structural diagnostic, got %v", diags)
				}
				return
			}

			if diags.HasErrors() {
				t.Fatalf("unexpected errors: %v", diags)
			}
			v := tmpl.Nodes[0].(*ast.VariableRef)
			if v.Formatter != tt.formatter {
				t.Errorf("formatter = %q, want %q", v.Formatter, tt.formatter)
			}
			if v.HasDefault != tt.hasDef || v.Default != tt.def {
				t.Errorf("default = %q/%v, want %q/%v", v.Default, v.HasDefault, tt.def, tt.hasDef)
			}
		})
	}
}

func TestParse_SizeLimit(t *testing.T) {
	p := NewParser().WithMaxTemplateSize(16)
	tmpl, diags := p.Parse("this input is longer than sixteen bytes")
	if tmpl != nil || !diags.HasErrors() {
		t.Fatal("expected a size limit error")
	}
}

func TestParse_NestingLimit(t *testing.T) {
	p := NewParser().WithMaxNesting(2)
	input := "{{#if a.b}}{{#if a.b}}{{#if a.b}}x{{/if}}{{/if}}{{/if}}"
	tmpl, diags := p.Parse(input)
	if tmpl != nil || !diags.HasErrors() {
		t.Fatal("expected a nesting depth error")
	}
}

func TestParse_CollectsMultipleErrors(t *testing.T) {
	input := "{{content.source:bad}} {{#if}}{{/if}} {{/each}}"
	_, diags := NewParser().Parse(input)
	if len(diags.Errors()) < 3 {
		t.Errorf("expected at least 3 errors, got %d: %v", len(diags.Errors()), diags)
	}
}
