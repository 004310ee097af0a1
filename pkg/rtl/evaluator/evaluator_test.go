package evaluator

import (
	"strings"
	"testing"

	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/parser"
	"rosetta-hq/rosetta/pkg/rtl/resolver"
	"rosetta-hq/rosetta/pkg/rtl/schema"
)

func render(t *testing.T, e *Evaluator, input string, env *resolver.Environment) (string, *rtlErrors.List) {
	t.Helper()
	tmpl, diags := parser.NewParser().Parse(input)
	if tmpl == nil {
		t.Fatalf("parse failed: %v", diags)
	}
	return e.Evaluate(tmpl, env)
}

func testEnv() *resolver.Environment {
	env := resolver.NewEnvironment()
	env.Set(resolver.NamespaceProject, "title", resolver.String("The Long Road"))
	env.Set(resolver.NamespaceProject, "author", resolver.String("A. Writer"))
	env.Set(resolver.NamespaceContent, "source", resolver.String("Es war einmal."))
	env.Set(resolver.NamespaceContent, "target", resolver.String("Once upon a time."))
	env.Set(resolver.NamespaceDerived, "tone", resolver.String("wistful"))
	env.Set(resolver.NamespaceDerived, "has_terminology", resolver.Bool(true))
	env.Set(resolver.NamespaceDerived, "key_terminology",
		resolver.StringMap("Weg", "road", "Haus", "house"))
	env.Set(resolver.NamespaceMeta, "word_count", resolver.Number(3))
	return env
}

func TestEvaluate_Substitution(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain variable",
			input: "Title: {{project.title}}",
			want:  "Title: The Long Road",
		},
		{
			name:  "number variable",
			input: "{{meta.word_count}} words",
			want:  "3 words",
		},
		{
			name:  "missing variable degrades to empty",
			input: "[{{derived.writing_style}}]",
			want:  "[]",
		},
		{
			name:  "default on missing variable",
			input: `{{derived.writing_style | default:"plain prose"}}`,
			want:  "plain prose",
		},
		{
			name:  "default ignored when value present",
			input: `{{derived.tone | default:"neutral"}}`,
			want:  "wistful",
		},
		{
			name:  "subkey lookup",
			input: "{{derived.key_terminology.Weg}}",
			want:  "road",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := render(t, New(schema.StageTranslation), tt.input, testEnv())
			if diags.HasErrors() {
				t.Fatalf("unexpected errors: %v", diags)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluate_MissingVariableWarns(t *testing.T) {
	_, diags := render(t, New(schema.StageTranslation), "{{derived.red_lines}}", testEnv())
	if diags.HasErrors() {
		t.Fatalf("missing variable must not be an error: %v", diags)
	}
	if !diags.HasCategory(rtlErrors.CategoryResolution) {
		t.Error("expected a resolution warning for the missing variable")
	}
}

func TestEvaluate_Conditionals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"if true", "{{#if derived.tone}}yes{{/if}}", "yes"},
		{"if false", "{{#if derived.writing_style}}yes{{/if}}", ""},
		{"if else", "{{#if derived.writing_style}}yes{{#else}}no{{/if}}", "no"},
		{"unless false", "{{#unless derived.writing_style}}absent{{/unless}}", "absent"},
		{"unless true", "{{#unless derived.tone}}absent{{/unless}}", ""},
		{"and both present", "{{#if derived.tone && project.title}}both{{/if}}", "both"},
		{"and one missing", "{{#if derived.tone && derived.writing_style}}both{{/if}}", ""},
		{"or one present", "{{#if derived.writing_style || derived.tone}}one{{/if}}", "one"},
		{"or both missing", "{{#if derived.writing_style || derived.red_lines}}one{{/if}}", ""},
		{"boolean flag", "{{#if derived.has_terminology}}flagged{{/if}}", "flagged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := render(t, New(schema.StageTranslation), tt.input, testEnv())
			if diags.HasErrors() {
				t.Fatalf("unexpected errors: %v", diags)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluate_ZeroNumberIsFalsy(t *testing.T) {
	env := testEnv()
	env.Set(resolver.NamespaceMeta, "char_count", resolver.Number(0))
	got, diags := render(t, New(schema.StageTranslation),
		"{{#if meta.char_count}}counted{{#else}}empty{{/if}}", env)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if got != "empty" {
		t.Errorf("got %q, want %q", got, "empty")
	}
}

func TestEvaluate_Loops(t *testing.T) {
	env := testEnv()
	env.Set(resolver.NamespaceUser, "names", resolver.Strings("x", "y"))

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sequence with index",
			input: "{{#each user.names}}{{@index}}:{{this}} {{/each}}",
			want:  "0:x 1:y ",
		},
		{
			name:  "mapping preserves order",
			input: "{{#each derived.key_terminology}}{{@key}}={{this}};{{/each}}",
			want:  "Weg=road;Haus=house;",
		},
		{
			name:  "absent source renders nothing",
			input: "before{{#each user.missing}}X{{/each}}after",
			want:  "beforeafter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := render(t, New(schema.StageTranslation), tt.input, env)
			if diags.HasErrors() {
				t.Fatalf("unexpected errors: %v", diags)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluate_NestedLoopShadowing(t *testing.T) {
	env := testEnv()
	env.Set(resolver.NamespaceUser, "outer", resolver.Strings("a", "b"))
	env.Set(resolver.NamespaceUser, "inner", resolver.Strings("1"))

	got, diags := render(t, New(schema.StageTranslation),
		"{{#each user.outer}}{{this}}({{#each user.inner}}{{this}}{{/each}}){{/each}}", env)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if got != "a(1)b(1)" {
		t.Errorf("got %q, want %q", got, "a(1)b(1)")
	}
}

func TestEvaluate_ThisSubPath(t *testing.T) {
	env := testEnv()
	env.Set(resolver.NamespaceUser, "characters", resolver.Sequence(
		resolver.StringMap("name", "Anna", "role", "narrator"),
		resolver.StringMap("name", "Jens"),
	))

	got, diags := render(t, New(schema.StageTranslation),
		"{{#each user.characters}}{{this.name}},{{/each}}", env)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if got != "Anna,Jens," {
		t.Errorf("got %q, want %q", got, "Anna,Jens,")
	}
}

func TestEvaluate_BindingOutsideLoop(t *testing.T) {
	got, diags := render(t, New(schema.StageTranslation), "[{{this}}{{@index}}]", testEnv())
	if diags.HasErrors() {
		t.Fatalf("bindings outside a loop must warn, not fail: %v", diags)
	}
	if got != "[]" {
		t.Errorf("got %q, want empty substitution", got)
	}
	if len(diags.Warnings()) < 2 {
		t.Errorf("expected warnings for both bindings, got %v", diags)
	}
}

func TestEvaluate_Macros(t *testing.T) {
	got, diags := render(t, New(schema.StageTranslation), "{{@book_info}}", testEnv())
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if got != "The Long Road by A. Writer" {
		t.Errorf("got %q", got)
	}
}

func TestEvaluate_MacroConditionalBody(t *testing.T) {
	env := testEnv()
	env.Set(resolver.NamespaceDerived, "terminology_table", resolver.String("- Weg: road"))

	got, diags := render(t, New(schema.StageProofreading), "{{@terminology_section}}", env)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if !strings.Contains(got, "### Terminology") || !strings.Contains(got, "- Weg: road") {
		t.Errorf("terminology section missing from %q", got)
	}
}

func TestEvaluate_UserMacroShadowsBuiltin(t *testing.T) {
	e := New(schema.StageTranslation).WithMacros(map[string]string{
		"book_info": "custom {{project.title}}",
	})
	got, diags := render(t, e, "{{@book_info}}", testEnv())
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if got != "custom The Long Road" {
		t.Errorf("got %q", got)
	}
}

func TestEvaluate_UnknownMacroWarns(t *testing.T) {
	got, diags := render(t, New(schema.StageTranslation), "[{{@nope}}]", testEnv())
	if diags.HasErrors() {
		t.Fatalf("unknown macro must warn, not fail: %v", diags)
	}
	if got != "[]" {
		t.Errorf("got %q", got)
	}
}

func TestEvaluate_MacroCycleIsFatal(t *testing.T) {
	e := New(schema.StageTranslation).WithMacros(map[string]string{
		"a": "{{@b}}",
		"b": "{{@a}}",
	})
	got, diags := render(t, e, "{{@a}}", testEnv())
	if got != "" {
		t.Errorf("cyclic render produced text %q, want empty", got)
	}
	if !diags.HasErrors() || !diags.HasCategory(rtlErrors.CategoryMacro) {
		t.Errorf("expected a macro error diagnostic, got %v", diags)
	}
}

func TestEvaluate_MacroDepthBound(t *testing.T) {
	// Each macro expands a distinct next one, so the cycle check never
	// fires; only the depth bound stops the chain.
	macros := map[string]string{
		"m0": "{{@m1}}", "m1": "{{@m2}}", "m2": "{{@m3}}", "m3": "{{@m4}}",
	}
	e := New(schema.StageTranslation).WithMacros(macros).WithMaxMacroDepth(3)
	got, diags := render(t, e, "{{@m0}}", testEnv())
	if got != "" {
		t.Errorf("over-deep render produced text %q, want empty", got)
	}
	if !diags.HasErrors() || !diags.HasCategory(rtlErrors.CategoryMacro) {
		t.Errorf("expected a macro depth error, got %v", diags)
	}
}

func TestEvaluate_AliasRewrite(t *testing.T) {
	// A legacy alias and its canonical path render identically; the alias
	// additionally records a deprecation warning.
	env := testEnv()

	canonical, d1 := render(t, New(schema.StageTranslation), "{{content.source}}", env)
	aliased, d2 := render(t, New(schema.StageTranslation), "{{source_text}}", env)

	if d1.HasErrors() || d2.HasErrors() {
		t.Fatalf("unexpected errors: %v / %v", d1, d2)
	}
	if canonical != aliased {
		t.Errorf("alias output %q differs from canonical %q", aliased, canonical)
	}
	if !d2.HasCategory(rtlErrors.CategoryStage) {
		t.Error("alias use did not record a deprecation warning")
	}
	if d1.HasCategory(rtlErrors.CategoryStage) {
		t.Error("canonical path recorded a deprecation warning")
	}
}

func TestEvaluate_AliasStageScoped(t *testing.T) {
	// original_text is only an alias in proofreading; elsewhere it is just
	// an unknown name.
	env := testEnv()

	got, diags := render(t, New(schema.StageProofreading), "{{original_text}}", env)
	if got != "Es war einmal." {
		t.Errorf("proofreading alias got %q", got)
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}

	got, _ = render(t, New(schema.StageTranslation), "{{original_text}}", env)
	if got != "" {
		t.Errorf("translation stage honored a proofreading alias: %q", got)
	}
}

func TestEvaluate_AliasInCondition(t *testing.T) {
	got, diags := render(t, New(schema.StageOptimization),
		"{{#if translated_text}}has target{{/if}}", testEnv())
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if got != "has target" {
		t.Errorf("got %q", got)
	}

	// The deprecation warning carries the conditional's tag location, not
	// a zero location.
	stage := diags.ByCategory(rtlErrors.CategoryStage)
	if len(stage) != 1 {
		t.Fatalf("got %d stage diagnostics, want 1: %v", len(stage), diags)
	}
	if !stage[0].Location.IsValid() {
		t.Errorf("alias warning has no location: %v", stage[0])
	}
	if stage[0].Location.Line != 1 || stage[0].Location.Column != 1 {
		t.Errorf("alias warning at %s, want 1:1", stage[0].Location.String())
	}
}
