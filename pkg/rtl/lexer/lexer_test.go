package lexer

import (
	"testing"
)

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "plain text only",
			input: "Translate this paragraph.",
			want: []Token{
				{Kind: KindText, Content: "Translate this paragraph."},
			},
		},
		{
			name:  "variable tag",
			input: "Title: {{project.title}}",
			want: []Token{
				{Kind: KindText, Content: "Title: "},
				{Kind: KindVar, Content: "project.title"},
			},
		},
		{
			name:  "variable with surrounding whitespace trimmed",
			input: "{{  content.source  }}",
			want: []Token{
				{Kind: KindVar, Content: "content.source"},
			},
		},
		{
			name:  "block open and close",
			input: "{{#if derived.tone}}x{{/if}}",
			want: []Token{
				{Kind: KindBlockOpen, Content: "if derived.tone"},
				{Kind: KindText, Content: "x"},
				{Kind: KindBlockClose, Content: "if"},
			},
		},
		{
			name:  "macro tag",
			input: "{{@book_info}}",
			want: []Token{
				{Kind: KindMacro, Content: "book_info"},
			},
		},
		{
			name:  "formatter and default survive in content",
			input: `{{derived.key_terminology:table | default:"none"}}`,
			want: []Token{
				{Kind: KindVar, Content: `derived.key_terminology:table | default:"none"`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, diags := Tokenize(tt.input)
			if diags.HasErrors() {
				t.Fatalf("Tokenize() unexpected errors: %v", diags)
			}
			if len(tokens) != len(tt.want) {
				t.Fatalf("Tokenize() got %d tokens, want %d: %+v", len(tokens), len(tt.want), tokens)
			}
			for i, tok := range tokens {
				if tok.Kind != tt.want[i].Kind {
					t.Errorf("token %d kind = %s, want %s", i, tok.Kind, tt.want[i].Kind)
				}
				if tok.Content != tt.want[i].Content {
					t.Errorf("token %d content = %q, want %q", i, tok.Content, tt.want[i].Content)
				}
			}
		})
	}
}

func TestTokenize_UnterminatedTag(t *testing.T) {
	tokens, diags := Tokenize("before {{content.source after")

	if !diags.HasErrors() {
		t.Fatal("expected an error diagnostic for an unterminated tag")
	}
	// The text scanned before the bad tag is still returned.
	if len(tokens) != 1 || tokens[0].Content != "before " {
		t.Errorf("expected the leading text token, got %+v", tokens)
	}
}

func TestTokenize_Locations(t *testing.T) {
	input := "line one\n{{content.source}}"
	tokens, diags := Tokenize(input)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}

	tag := tokens[1]
	if tag.Location.Line != 2 || tag.Location.Column != 1 {
		t.Errorf("tag location = %s, want 2:1", tag.Location)
	}
	if tag.Location.Offset != len("line one\n") {
		t.Errorf("tag offset = %d, want %d", tag.Location.Offset, len("line one\n"))
	}
}

func TestTokenize_Empty(t *testing.T) {
	tokens, diags := Tokenize("")
	if diags.Count() != 0 {
		t.Errorf("empty input produced diagnostics: %v", diags)
	}
	if len(tokens) != 0 {
		t.Errorf("empty input produced tokens: %+v", tokens)
	}
}
