// Rosetta is a template engine for LLM translation pipeline prompts.
//
// It validates and renders RTL (Rosetta Template Language) templates
// against the variable environment of an ePub translation project.
//
// Usage:
//
//	# Validate a template for the translation stage
//	rosetta lint --file prompts/system/translation/main.md --stage translation
//
//	# Validate a whole directory, re-checking on every change
//	rosetta lint --dir prompts/ --stage translation --watch
//
//	# Render a template against a variables file
//	rosetta render --file main.md --stage translation --vars variables.json
//
//	# List the variables and aliases legal in a stage
//	rosetta vars --stage proofreading
//
//	# List the built-in macros
//	rosetta macros
package main

func main() {
	Execute()
}
