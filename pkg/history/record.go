package history

import "time"

// Record is one render invocation as persisted in the history store. It
// captures what was rendered, for which project and stage, and how the
// render went, so template regressions can be traced after the fact.
type Record struct {
	// ID is a UUID assigned by the recorder.
	ID string

	// Project is the translation project the render belongs to.
	Project string

	// Stage is the pipeline stage the template was rendered for.
	Stage string

	// TemplateID identifies the template within the store
	// (category/stage/name) or "inline" for ad hoc text.
	TemplateID string

	// OutputChars is the length of the rendered text in characters.
	OutputChars int

	// WarningCount and ErrorCount summarize the diagnostic list.
	WarningCount int
	ErrorCount   int

	// Diagnostics is the JSON-encoded diagnostic list, empty when clean.
	Diagnostics string

	// Duration is the wall-clock render time.
	Duration time.Duration

	// CreatedAt is when the render happened.
	CreatedAt time.Time
}

// Query filters history reads. Zero fields match everything.
type Query struct {
	Project string
	Stage   string
	Since   *time.Time
	Until   *time.Time
	Limit   int
	Offset  int
}
