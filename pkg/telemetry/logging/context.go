package logging

import (
	"context"
)

// Context keys for render-scoped log fields.
type contextKey string

const (
	// RenderIDKey is the context key for render identifiers.
	RenderIDKey contextKey = "render_id"

	// ProjectKey is the context key for project names.
	ProjectKey contextKey = "project"

	// StageKey is the context key for pipeline stage names.
	StageKey contextKey = "stage"

	// TemplateKey is the context key for template identifiers.
	TemplateKey contextKey = "template"
)

// WithRenderID adds a render identifier to the context.
func WithRenderID(ctx context.Context, renderID string) context.Context {
	return context.WithValue(ctx, RenderIDKey, renderID)
}

// GetRenderID retrieves the render identifier from the context.
func GetRenderID(ctx context.Context) string {
	if renderID, ok := ctx.Value(RenderIDKey).(string); ok {
		return renderID
	}
	return ""
}

// WithProject adds a project name to the context.
func WithProject(ctx context.Context, project string) context.Context {
	return context.WithValue(ctx, ProjectKey, project)
}

// GetProject retrieves the project name from the context.
func GetProject(ctx context.Context) string {
	if project, ok := ctx.Value(ProjectKey).(string); ok {
		return project
	}
	return ""
}

// WithStage adds a pipeline stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

// GetStage retrieves the pipeline stage name from the context.
func GetStage(ctx context.Context) string {
	if stage, ok := ctx.Value(StageKey).(string); ok {
		return stage
	}
	return ""
}

// WithTemplate adds a template identifier to the context.
func WithTemplate(ctx context.Context, template string) context.Context {
	return context.WithValue(ctx, TemplateKey, template)
}

// GetTemplate retrieves the template identifier from the context.
func GetTemplate(ctx context.Context) string {
	if template, ok := ctx.Value(TemplateKey).(string); ok {
		return template
	}
	return ""
}

// extractContextFields extracts render-scoped fields from the context.
// Returns a slice of key-value pairs suitable for Logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if renderID := GetRenderID(ctx); renderID != "" {
		fields = append(fields, "render_id", renderID)
	}
	if project := GetProject(ctx); project != "" {
		fields = append(fields, "project", project)
	}
	if stage := GetStage(ctx); stage != "" {
		fields = append(fields, "stage", stage)
	}
	if template := GetTemplate(ctx); template != "" {
		fields = append(fields, "template", template)
	}

	return fields
}
