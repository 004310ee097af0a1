package rtl

import (
	"strings"
	"testing"

	"rosetta-hq/rosetta/pkg/rtl/resolver"
	"rosetta-hq/rosetta/pkg/rtl/schema"
)

// Full stage templates exercising the language end to end, the way shipped
// prompt files are written.
var stageTemplates = map[schema.Stage]string{
	schema.StageAnalysis: `Analyze the writing style of {{@book_info}}.

Sample paragraphs:
{{content.sample_paragraphs}}

Report tone, style, and recurring terminology.`,

	schema.StageTranslation: `{{@book_info}}
{{@style_guide}}
{{@terminology_section}}
{{#if context.previous_source}}
Previous paragraph: {{context.previous_source}}
Previous translation: {{context.previous_target}}
{{/if}}
Translate into {{project.target_language}}:

{{content.source}}`,

	schema.StageOptimization: `Improve this translation of {{content.source}}:

{{content.target}}
{{#if pipeline.suggested_changes}}
Apply these suggestions:
{{pipeline.suggested_changes:list}}
{{/if}}`,

	schema.StageProofreading: `Proofread {{content.target}} against {{content.source}}.
{{#each derived.key_terminology}}{{@key}} must be rendered as {{this}}.
{{/each}}`,
}

func fullEnv() *resolver.Environment {
	env := resolver.NewEnvironment()
	env.Set(resolver.NamespaceProject, "title", resolver.String("Der Weg"))
	env.Set(resolver.NamespaceProject, "author", resolver.String("E. Autor"))
	env.Set(resolver.NamespaceProject, "target_language", resolver.String("en"))
	env.Set(resolver.NamespaceContent, "source", resolver.String("Es war einmal."))
	env.Set(resolver.NamespaceContent, "target", resolver.String("Once upon a time."))
	env.Set(resolver.NamespaceContent, "sample_paragraphs", resolver.String("Es war einmal."))
	env.Set(resolver.NamespaceContext, "previous_source", resolver.String("Kapitel eins."))
	env.Set(resolver.NamespaceContext, "previous_target", resolver.String("Chapter one."))
	env.Set(resolver.NamespacePipeline, "suggested_changes", resolver.Strings("shorter sentences"))
	env.Set(resolver.NamespaceDerived, "writing_style", resolver.String("sparse"))
	env.Set(resolver.NamespaceDerived, "tone", resolver.String("wistful"))
	env.Set(resolver.NamespaceDerived, "has_terminology", resolver.Bool(true))
	env.Set(resolver.NamespaceDerived, "terminology_table", resolver.String("- Weg: road"))
	env.Set(resolver.NamespaceDerived, "key_terminology", resolver.StringMap("Weg", "road"))
	return env
}

func TestStageTemplatesEndToEnd(t *testing.T) {
	env := fullEnv()

	for stage, text := range stageTemplates {
		t.Run(string(stage), func(t *testing.T) {
			result := Validate(text, stage)
			if !result.SafeToRender {
				t.Fatalf("template failed validation: %v", result.Diagnostics)
			}

			out, diags, err := NewRenderer(stage).Render(text, env)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if diags.HasErrors() {
				t.Fatalf("unexpected error diagnostics: %v", diags)
			}
			if strings.TrimSpace(out) == "" {
				t.Error("render produced no output")
			}
			if strings.Contains(out, "{{") {
				t.Errorf("unexpanded tag left in output:\n%s", out)
			}
		})
	}
}

func TestTranslationTemplateContent(t *testing.T) {
	out, _, err := NewRenderer(schema.StageTranslation).
		Render(stageTemplates[schema.StageTranslation], fullEnv())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for _, want := range []string{
		"Der Weg by E. Autor",
		"**Style**: sparse",
		"**Tone**: wistful",
		"### Terminology",
		"- Weg: road",
		"Previous paragraph: Kapitel eins.",
		"Translate into en:",
		"Es war einmal.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
