package vars

import (
	"strings"

	"rosetta-hq/rosetta/pkg/rtl/resolver"
	"rosetta-hq/rosetta/pkg/rtl/schema"
)

// Project is the book-level metadata, available in every stage.
type Project struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	AuthorBackground string `json:"author_background"`
	Name             string `json:"name"`
	SourceLanguage   string `json:"source_language"`
	TargetLanguage   string `json:"target_language"`
	TotalChapters    int    `json:"total_chapters"`
	TotalParagraphs  int    `json:"total_paragraphs"`
}

// Content is the current paragraph's text.
type Content struct {
	Source           string `json:"source"`
	Target           string `json:"target"`
	ChapterTitle     string `json:"chapter_title"`
	SampleParagraphs string `json:"sample_paragraphs"`
}

// Context is the surrounding paragraphs, for translation continuity.
type Context struct {
	PreviousSource string `json:"previous_source"`
	PreviousTarget string `json:"previous_target"`
	NextSource     string `json:"next_source"`
}

// Pipeline carries outputs of earlier pipeline steps.
type Pipeline struct {
	ReferenceTranslation string   `json:"reference_translation"`
	SuggestedChanges     []string `json:"suggested_changes"`
}

// Term is one glossary pairing.
type Term struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
}

// Analysis holds the values produced by the book analysis stage. A nil
// Analysis means the stage has not run; every derived variable is then
// absent and derived.has_analysis is false.
type Analysis struct {
	AuthorName            string   `json:"author_name"`
	AuthorBiography       string   `json:"author_biography"`
	WritingStyle          string   `json:"writing_style"`
	Tone                  string   `json:"tone"`
	TargetAudience        string   `json:"target_audience"`
	GenreConventions      string   `json:"genre_conventions"`
	KeyTerminology        []Term   `json:"key_terminology"`
	PriorityOrder         []string `json:"priority_order"`
	FaithfulnessBoundary  string   `json:"faithfulness_boundary"`
	PermissibleAdaptation string   `json:"permissible_adaptation"`
	StyleConstraints      []string `json:"style_constraints"`
	RedLines              []string `json:"red_lines"`
	CustomGuidelines      string   `json:"custom_guidelines"`
}

// Inputs is everything the builder assembles an environment from.
type Inputs struct {
	Project  Project
	Content  Content
	Context  Context
	Pipeline Pipeline
	Analysis *Analysis

	ParagraphIndex int
	ChapterIndex   int

	// User holds project-defined variables, exposed under user.*.
	User map[string]resolver.Value
}

// Build assembles the layered variable environment for one render. Empty
// inputs simply leave their variables absent; the engine degrades missing
// optional variables on its own.
func Build(stage schema.Stage, in Inputs) *resolver.Environment {
	env := resolver.NewEnvironment()

	setStr := func(ns resolver.Namespace, leaf, val string) {
		if val != "" {
			env.Set(ns, leaf, resolver.String(val))
		}
	}

	// Project metadata.
	setStr(resolver.NamespaceProject, "title", in.Project.Title)
	setStr(resolver.NamespaceProject, "author", in.Project.Author)
	setStr(resolver.NamespaceProject, "author_background", in.Project.AuthorBackground)
	setStr(resolver.NamespaceProject, "name", in.Project.Name)
	setStr(resolver.NamespaceProject, "source_language", in.Project.SourceLanguage)
	setStr(resolver.NamespaceProject, "target_language", in.Project.TargetLanguage)
	if in.Project.TotalChapters > 0 {
		env.Set(resolver.NamespaceProject, "total_chapters", resolver.Number(float64(in.Project.TotalChapters)))
	}
	if in.Project.TotalParagraphs > 0 {
		env.Set(resolver.NamespaceProject, "total_paragraphs", resolver.Number(float64(in.Project.TotalParagraphs)))
	}

	// Paragraph content.
	setStr(resolver.NamespaceContent, "source", in.Content.Source)
	setStr(resolver.NamespaceContent, "target", in.Content.Target)
	setStr(resolver.NamespaceContent, "chapter_title", in.Content.ChapterTitle)
	setStr(resolver.NamespaceContent, "sample_paragraphs", in.Content.SampleParagraphs)

	// Surrounding paragraphs.
	setStr(resolver.NamespaceContext, "previous_source", in.Context.PreviousSource)
	setStr(resolver.NamespaceContext, "previous_target", in.Context.PreviousTarget)
	setStr(resolver.NamespaceContext, "next_source", in.Context.NextSource)

	// Earlier pipeline outputs.
	setStr(resolver.NamespacePipeline, "reference_translation", in.Pipeline.ReferenceTranslation)
	if len(in.Pipeline.SuggestedChanges) > 0 {
		env.Set(resolver.NamespacePipeline, "suggested_changes", resolver.Strings(in.Pipeline.SuggestedChanges...))
	}

	applyAnalysis(env, in.Analysis)

	// Runtime meta values.
	if in.Content.Source != "" {
		env.Set(resolver.NamespaceMeta, "word_count", resolver.Number(float64(len(strings.Fields(in.Content.Source)))))
		env.Set(resolver.NamespaceMeta, "char_count", resolver.Number(float64(len([]rune(in.Content.Source)))))
	}
	env.Set(resolver.NamespaceMeta, "paragraph_index", resolver.Number(float64(in.ParagraphIndex)))
	env.Set(resolver.NamespaceMeta, "chapter_index", resolver.Number(float64(in.ChapterIndex)))
	env.Set(resolver.NamespaceMeta, "stage", resolver.String(string(stage)))

	// User variables.
	for leaf, v := range in.User {
		env.Set(resolver.NamespaceUser, leaf, v)
	}

	return env
}

// applyAnalysis maps analysis output to the derived namespace, including
// the has_* presence flags templates branch on.
func applyAnalysis(env *resolver.Environment, a *Analysis) {
	env.Set(resolver.NamespaceDerived, "has_analysis", resolver.Bool(a != nil))
	if a == nil {
		return
	}

	set := func(leaf, val string) {
		if val != "" {
			env.Set(resolver.NamespaceDerived, leaf, resolver.String(val))
		}
	}

	set("author_name", a.AuthorName)
	set("author_biography", a.AuthorBiography)
	set("writing_style", a.WritingStyle)
	set("tone", a.Tone)
	set("target_audience", a.TargetAudience)
	set("genre_conventions", a.GenreConventions)
	set("faithfulness_boundary", a.FaithfulnessBoundary)
	set("permissible_adaptation", a.PermissibleAdaptation)
	set("custom_guidelines", a.CustomGuidelines)

	if len(a.KeyTerminology) > 0 {
		entries := make([]resolver.MapEntry, len(a.KeyTerminology))
		lines := make([]string, len(a.KeyTerminology))
		for i, term := range a.KeyTerminology {
			entries[i] = resolver.MapEntry{Key: term.Term, Value: resolver.String(term.Translation)}
			lines[i] = "- " + term.Term + ": " + term.Translation
		}
		env.Set(resolver.NamespaceDerived, "key_terminology", resolver.Mapping(entries...))
		env.Set(resolver.NamespaceDerived, "terminology_table", resolver.String(strings.Join(lines, "\n")))
	}

	if len(a.PriorityOrder) > 0 {
		env.Set(resolver.NamespaceDerived, "priority_order", resolver.Strings(a.PriorityOrder...))
	}
	if len(a.StyleConstraints) > 0 {
		env.Set(resolver.NamespaceDerived, "style_constraints", resolver.Strings(a.StyleConstraints...))
	}
	if len(a.RedLines) > 0 {
		env.Set(resolver.NamespaceDerived, "red_lines", resolver.Strings(a.RedLines...))
	}

	flag := func(leaf string, present bool) {
		env.Set(resolver.NamespaceDerived, leaf, resolver.Bool(present))
	}

	flag("has_writing_style", a.WritingStyle != "")
	flag("has_tone", a.Tone != "")
	flag("has_terminology", len(a.KeyTerminology) > 0)
	flag("has_author_biography", a.AuthorBiography != "")
	flag("has_target_audience", a.TargetAudience != "")
	flag("has_genre_conventions", a.GenreConventions != "")
	flag("has_custom_guidelines", a.CustomGuidelines != "")
	flag("has_style_constraints", len(a.StyleConstraints) > 0)
	flag("has_translation_principles",
		a.FaithfulnessBoundary != "" || a.PermissibleAdaptation != "" ||
			len(a.PriorityOrder) > 0 || len(a.RedLines) > 0)
}
