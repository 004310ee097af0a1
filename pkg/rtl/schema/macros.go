package schema

// defaultMacros are the built-in macro bodies available to every template.
// A macro body is itself an RTL template, parsed and rendered recursively.
// User-defined macros of the same name shadow these in every stage.
var defaultMacros = map[string]string{
	"book_info": "{{project.title}} by {{project.author}}",

	"style_guide": "{{#if derived.writing_style}}" +
		"**Style**: {{derived.writing_style}}\n" +
		"{{/if}}" +
		"{{#if derived.tone}}" +
		"**Tone**: {{derived.tone}}" +
		"{{/if}}",

	"terminology_section": "{{#if derived.has_terminology}}" +
		"### Terminology\n{{derived.terminology_table}}" +
		"{{/if}}",
}

// DefaultMacros returns a copy of the built-in macro table. Callers overlay
// user-defined macros on the copy rather than mutating a shared table.
func DefaultMacros() map[string]string {
	out := make(map[string]string, len(defaultMacros))
	for name, body := range defaultMacros {
		out[name] = body
	}
	return out
}

// LookupDefaultMacro returns a built-in macro body by name.
func LookupDefaultMacro(name string) (string, bool) {
	body, ok := defaultMacros[name]
	return body, ok
}
