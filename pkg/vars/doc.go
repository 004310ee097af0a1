// Package vars assembles the variable environment a render consumes:
// project metadata, paragraph content, surrounding context, pipeline
// outputs, analysis-derived values with their has_* presence flags, runtime
// meta values, and user-defined variables from a project variables file.
package vars
