package schema

import "strings"

// Variable describes one canonical template variable: its fully qualified
// path, what it holds, and which stages may reference it.
type Variable struct {
	Path        string  // Fully qualified "namespace.leaf" path
	Description string  // What the variable holds
	Stages      []Stage // Stages in which the variable is legal
}

// registry is the static declaration of every canonical variable. It is
// configuration data: created once, consulted by the stage validator and
// the alias layer, never mutated at render time.
var registry = []Variable{
	// Project metadata, available everywhere.
	{"project.title", "Book title from ePub metadata", allStages},
	{"project.author", "Author name from ePub metadata", allStages},
	{"project.author_background", "Custom author background info", allStages},
	{"project.name", "Project name", allStages},
	{"project.source_language", "Source language code", allStages},
	{"project.target_language", "Target language code", allStages},
	{"project.total_chapters", "Total number of chapters", allStages},
	{"project.total_paragraphs", "Total number of paragraphs", allStages},

	// Current paragraph content, stage aware.
	{"content.source", "Source text of the current paragraph", []Stage{StageTranslation, StageOptimization, StageProofreading}},
	{"content.target", "Current translation of the paragraph", []Stage{StageOptimization, StageProofreading}},
	{"content.chapter_title", "Current chapter title", []Stage{StageTranslation, StageOptimization, StageProofreading}},
	{"content.sample_paragraphs", "Sample paragraphs for book analysis", []Stage{StageAnalysis}},

	// Surrounding paragraphs for continuity.
	{"context.previous_source", "Previous paragraph source text", []Stage{StageTranslation}},
	{"context.previous_target", "Previous paragraph translation", []Stage{StageTranslation}},
	{"context.next_source", "Next paragraph source text", []Stage{StageTranslation}},

	// Outputs of earlier pipeline steps.
	{"pipeline.reference_translation", "Matched reference translation", []Stage{StageTranslation}},
	{"pipeline.suggested_changes", "User-provided suggestions", []Stage{StageOptimization}},

	// Values derived from book analysis.
	{"derived.author_name", "Author name from analysis", postAnalysis},
	{"derived.author_biography", "Author biography from analysis", postAnalysis},
	{"derived.writing_style", "Writing style from analysis", postAnalysis},
	{"derived.tone", "Tone from analysis", postAnalysis},
	{"derived.target_audience", "Target audience", postAnalysis},
	{"derived.genre_conventions", "Genre conventions", postAnalysis},
	{"derived.key_terminology", "Terminology mapping (term to translation)", postAnalysis},
	{"derived.terminology_table", "Pre-formatted terminology list", postAnalysis},
	{"derived.priority_order", "Translation priority order", postAnalysis},
	{"derived.faithfulness_boundary", "Strict faithfulness requirements", postAnalysis},
	{"derived.permissible_adaptation", "Allowed adaptations", postAnalysis},
	{"derived.style_constraints", "Style constraints", postAnalysis},
	{"derived.red_lines", "Prohibited actions", postAnalysis},
	{"derived.custom_guidelines", "Custom translation guidelines", postAnalysis},
	{"derived.has_analysis", "Whether analysis exists", postAnalysis},
	{"derived.has_writing_style", "Whether writing style is defined", postAnalysis},
	{"derived.has_tone", "Whether tone is defined", postAnalysis},
	{"derived.has_terminology", "Whether terminology is defined", postAnalysis},
	{"derived.has_author_biography", "Whether an author biography exists", postAnalysis},
	{"derived.has_target_audience", "Whether target audience is defined", postAnalysis},
	{"derived.has_genre_conventions", "Whether genre conventions are defined", postAnalysis},
	{"derived.has_translation_principles", "Whether translation principles exist", postAnalysis},
	{"derived.has_custom_guidelines", "Whether custom guidelines exist", postAnalysis},
	{"derived.has_style_constraints", "Whether style constraints exist", postAnalysis},

	// Runtime computed values.
	{"meta.word_count", "Word count of the source text", []Stage{StageTranslation, StageOptimization}},
	{"meta.char_count", "Character count of the source text", []Stage{StageTranslation, StageOptimization}},
	{"meta.paragraph_index", "Current paragraph index", []Stage{StageTranslation, StageProofreading}},
	{"meta.chapter_index", "Current chapter index", []Stage{StageTranslation, StageProofreading}},
	{"meta.stage", "Current processing stage", allStages},
}

// postAnalysis marks derived variables: produced by the analysis stage,
// consumable in every stage after it.
var postAnalysis = []Stage{StageTranslation, StageOptimization, StageProofreading}

// required lists, per stage, the canonical paths a template for that stage
// is expected to reference. Absence is a warning, not an error.
var required = map[Stage][]string{
	StageAnalysis:     {"content.sample_paragraphs"},
	StageTranslation:  {"content.source"},
	StageOptimization: {"content.source", "content.target"},
	StageProofreading: {"content.source", "content.target"},
}

// LookupVariable returns the declaration for a fully qualified path.
// Any path under the user namespace is legal by the user.* wildcard.
func LookupVariable(path string) (*Variable, bool) {
	if strings.HasPrefix(path, "user.") {
		return &Variable{
			Path:        path,
			Description: "User-defined variable",
			Stages:      allStages,
		}, true
	}
	for i := range registry {
		if registry[i].Path == path {
			return &registry[i], true
		}
	}
	return nil, false
}

// LegalForStage reports whether a canonical path may be referenced by a
// template declared for the given stage.
func LegalForStage(path string, st Stage) bool {
	v, ok := LookupVariable(path)
	if !ok {
		return false
	}
	return contains(v.Stages, st)
}

// RequiredPaths returns the canonical paths a template for the stage is
// expected to reference.
func RequiredPaths(st Stage) []string {
	return required[st]
}

// VariablesForStage returns every variable declaration legal in the stage.
func VariablesForStage(st Stage) []Variable {
	var out []Variable
	for _, v := range registry {
		if contains(v.Stages, st) {
			out = append(out, v)
		}
	}
	return out
}

// AllPaths returns every canonical variable path in declaration order.
func AllPaths() []string {
	paths := make([]string, len(registry))
	for i, v := range registry {
		paths[i] = v.Path
	}
	return paths
}
