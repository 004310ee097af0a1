// Package logging provides structured logging on top of log/slog, with
// configurable level and format and render-scoped context fields
// (render_id, project, stage, template).
package logging
