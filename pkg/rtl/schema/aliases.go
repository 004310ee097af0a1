package schema

// Alias maps a deprecated unqualified variable name to its canonical
// namespaced path, scoped by stage: an alias legal in one stage may be
// illegal in another.
type Alias struct {
	Name      string  // Deprecated unqualified name as written in templates
	Canonical string  // Canonical "namespace.leaf" replacement
	Stages    []Stage // Stages in which the alias is honored
}

// aliases is the fixed legacy alias table. New aliases are not added;
// this exists for templates written before namespacing.
var aliases = []Alias{
	{"source_text", "content.source", []Stage{StageTranslation, StageOptimization}},
	{"original_text", "content.source", []Stage{StageProofreading}},
	{"translated_text", "content.target", []Stage{StageOptimization, StageProofreading}},
	{"existing_translation", "content.target", []Stage{StageOptimization, StageProofreading}},
	{"current_translation", "content.target", []Stage{StageOptimization, StageProofreading}},
	{"target_language", "project.target_language", allStages},
	{"previous_original", "context.previous_source", []Stage{StageTranslation}},
	{"previous_translation", "context.previous_target", []Stage{StageTranslation}},
}

// ResolveAlias rewrites a deprecated name to its canonical path if the
// alias is legal in the active stage. Paths that are not aliases (or whose
// alias is not legal in the stage) pass through unchanged with ok=false.
func ResolveAlias(name string, st Stage) (canonical string, ok bool) {
	for _, a := range aliases {
		if a.Name == name && contains(a.Stages, st) {
			return a.Canonical, true
		}
	}
	return name, false
}

// AliasesForStage returns the aliases honored in the given stage.
func AliasesForStage(st Stage) []Alias {
	var out []Alias
	for _, a := range aliases {
		if contains(a.Stages, st) {
			out = append(out, a)
		}
	}
	return out
}
