package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rosetta-hq/rosetta/pkg/cli"
	"rosetta-hq/rosetta/pkg/config"
	"rosetta-hq/rosetta/pkg/history"
	"rosetta-hq/rosetta/pkg/prompts"
	"rosetta-hq/rosetta/pkg/rendercache"
	"rosetta-hq/rosetta/pkg/rtl"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/schema"
	"rosetta-hq/rosetta/pkg/telemetry/logging"
	"rosetta-hq/rosetta/pkg/telemetry/metrics"
	"rosetta-hq/rosetta/pkg/vars"
)

var renderFlags struct {
	file     string
	template string
	stage    string
	inputs   string
	out      string
	format   string
	project  string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a template against a render inputs file",
	Long: `Render an RTL template for a pipeline stage.

The inputs file supplies project metadata, paragraph content, surrounding
context, pipeline outputs, analysis results, user variables, and user
macros as JSON. Missing optional variables degrade to warnings; structural
errors and macro cycles fail the render.

When the configuration enables them, rendered prompts are cached and every
render is recorded in the history store.

Examples:
  # Render a file to stdout
  rosetta render --file main.md --stage translation --inputs inputs.json

  # Render a template from the configured library
  rosetta render --template system/translation/main --stage translation \
    --inputs inputs.json

  # Render to a file, with diagnostics as JSON
  rosetta render --file main.md --stage translation --inputs inputs.json \
    --out prompt.txt --format json`,
	RunE: renderTemplate,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderFlags.file, "file", "f", "", "template file to render")
	renderCmd.Flags().StringVarP(&renderFlags.template, "template", "t", "", "template id (category/stage/name) in the configured library")
	renderCmd.Flags().StringVarP(&renderFlags.stage, "stage", "s", "", "pipeline stage (required)")
	renderCmd.Flags().StringVarP(&renderFlags.inputs, "inputs", "i", "", "render inputs JSON file")
	renderCmd.Flags().StringVarP(&renderFlags.out, "out", "o", "", "write rendered text to a file instead of stdout")
	renderCmd.Flags().StringVar(&renderFlags.format, "format", "text", "diagnostics format: text, json")
	renderCmd.Flags().StringVar(&renderFlags.project, "project", "", "project name for history records")

	renderCmd.MarkFlagRequired("stage")
}

// RenderReport is the JSON diagnostics output of the render command.
type RenderReport struct {
	File       string      `json:"file"`
	Stage      string      `json:"stage"`
	Rendered   bool        `json:"rendered"`
	OutputSize int         `json:"output_size"`
	CacheHit   bool        `json:"cache_hit"`
	Errors     []LintIssue `json:"errors,omitempty"`
	Warnings   []LintIssue `json:"warnings,omitempty"`
}

func renderTemplate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	stage, err := schema.ParseStage(renderFlags.stage)
	if err != nil {
		return err
	}

	text, templateID, err := loadTemplateText(cfg, stage)
	if err != nil {
		return err
	}

	inputs := &vars.InputsFile{Macros: map[string]string{}}
	if renderFlags.inputs != "" {
		inputs, err = vars.LoadInputsFile(renderFlags.inputs)
		if err != nil {
			return err
		}
	}
	env := vars.Build(stage, inputs.Inputs)

	renderer := rtl.NewRenderer(stage,
		rtl.WithMacros(inputs.Macros),
		rtl.WithMaxMacroDepth(cfg.Engine.MaxMacroDepth),
		rtl.WithMaxTemplateSize(cfg.Engine.MaxTemplateSize),
	)

	ctx := context.Background()

	collector := newCollector(cfg)

	var cache *rendercache.Cache
	if cfg.Cache.Enabled {
		cache, err = rendercache.New(rendercache.Config{
			DBPath: cfg.Cache.Path,
			TTL:    cfg.Cache.TTL,
		})
		if err != nil {
			logger.Warn("render cache unavailable", "error", err)
		} else {
			defer cache.Close()
		}
	}

	report := RenderReport{
		File:  templateID,
		Stage: string(stage),
	}

	key := rendercache.Key(text, string(stage), env)
	if cache != nil {
		if cached, ok, err := cache.Get(ctx, key); err == nil && ok {
			if collector != nil {
				collector.RecordCacheLookup("hit")
			}
			report.Rendered = true
			report.CacheHit = true
			report.OutputSize = len(cached)
			logger.Debug("cache hit", "key", key)
			return emitRender(cached, report)
		}
		if collector != nil {
			collector.RecordCacheLookup("miss")
		}
	}

	start := time.Now()
	out, diags, renderErr := renderer.Render(text, env)
	elapsed := time.Since(start)

	for _, d := range diags.Diagnostics {
		issue := toIssue(d)
		if d.IsError() {
			report.Errors = append(report.Errors, issue)
		} else {
			report.Warnings = append(report.Warnings, issue)
		}
	}

	recordMetrics(collector, stage, diags, renderErr, elapsed)
	recordHistory(cfg, logger, stage, templateID, out, diags, elapsed)

	if renderErr != nil {
		if jsonErr := emitReport(report); jsonErr != nil {
			return jsonErr
		}
		return cli.NewCommandError("render", renderErr)
	}

	report.Rendered = true
	report.OutputSize = len(out)

	if cache != nil {
		if err := cache.Put(ctx, key, out); err != nil {
			logger.Warn("cache write failed", "error", err)
		}
	}

	return emitRender(out, report)
}

// newCollector creates the engine metrics collector when the configuration
// enables it. A nil return disables recording.
func newCollector(cfg *config.Config) *metrics.Collector {
	if !cfg.Telemetry.Metrics.Enabled {
		return nil
	}
	return metrics.NewCollector(&metrics.Config{Namespace: cfg.Telemetry.Metrics.Namespace}, nil)
}

// recordMetrics counts the render outcome and its diagnostics.
func recordMetrics(collector *metrics.Collector, stage schema.Stage, diags *rtlErrors.List, renderErr error, elapsed time.Duration) {
	if collector == nil {
		return
	}
	status := "success"
	if renderErr != nil {
		status = "error"
	}
	collector.RecordRender(string(stage), status, elapsed)
	for _, d := range diags.Diagnostics {
		collector.RecordDiagnostic(string(d.Category), string(d.Severity))
	}
}

// recordHistory writes one history record when the history store is
// enabled. Failures are logged, never surfaced: an audit miss must not
// fail a render.
func recordHistory(cfg *config.Config, logger *logging.Logger, stage schema.Stage, templateID, out string, diags *rtlErrors.List, elapsed time.Duration) {
	if !cfg.History.Enabled {
		return
	}

	storeCfg := history.DefaultStoreConfig()
	storeCfg.Path = cfg.History.Path
	store, err := history.NewStore(storeCfg)
	if err != nil {
		logger.Warn("history store unavailable", "error", err)
		return
	}
	defer store.Close()

	recorder := history.NewRecorder(store, &history.RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  cfg.History.AsyncBuffer,
		WriteTimeout: cfg.History.WriteTimeout,
	})
	defer recorder.Close()

	recorder.Record(renderFlags.project, string(stage), templateID, out, diags, elapsed)
}

// loadTemplateText reads the template either from an explicit file or from
// the configured template library by id.
func loadTemplateText(cfg *config.Config, stage schema.Stage) (text, templateID string, err error) {
	switch {
	case renderFlags.file != "" && renderFlags.template != "":
		return "", "", fmt.Errorf("--file and --template are mutually exclusive")

	case renderFlags.file != "":
		data, err := os.ReadFile(renderFlags.file)
		if err != nil {
			return "", "", fmt.Errorf("failed to read template: %w", err)
		}
		return string(data), renderFlags.file, nil

	case renderFlags.template != "":
		parts := strings.SplitN(renderFlags.template, "/", 3)
		if len(parts) != 3 {
			return "", "", fmt.Errorf("template id must be category/stage/name, got %q", renderFlags.template)
		}
		idStage, err := schema.ParseStage(parts[1])
		if err != nil {
			return "", "", err
		}
		if idStage != stage {
			return "", "", fmt.Errorf("template id names stage %s but --stage is %s", idStage, stage)
		}
		tmpl, err := prompts.NewStore(cfg.Templates.Dir).Get(parts[0], idStage, parts[2])
		if err != nil {
			return "", "", err
		}
		return tmpl.Text, tmpl.ID(), nil

	default:
		return "", "", fmt.Errorf("either --file or --template must be specified")
	}
}

func emitRender(out string, report RenderReport) error {
	if renderFlags.out != "" {
		if err := os.WriteFile(renderFlags.out, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Print(out)
	}
	return emitReport(report)
}

func emitReport(report RenderReport) error {
	if renderFlags.format == "json" {
		return outputJSON(report)
	}

	// Diagnostics go to stderr so the rendered prompt can be piped.
	for _, issue := range report.Errors {
		printIssue(os.Stderr, "✗ Error", issue)
	}
	for _, issue := range report.Warnings {
		printIssue(os.Stderr, "⚠  Warning", issue)
	}
	return nil
}
