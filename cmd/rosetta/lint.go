package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rosetta-hq/rosetta/pkg/cli"
	"rosetta-hq/rosetta/pkg/prompts"
	"rosetta-hq/rosetta/pkg/rtl"
	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
	"rosetta-hq/rosetta/pkg/rtl/schema"
	"rosetta-hq/rosetta/pkg/telemetry/metrics"
)

var lintFlags struct {
	file   string
	dir    string
	stage  string
	strict bool
	format string
	watch  bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate template files",
	Long: `Validate RTL template files for a pipeline stage.

The lint command parses templates and runs every static check:
  - Tag syntax and block structure
  - Stage legality of referenced variables
  - Required variables for the stage
  - Deprecated aliases
  - Macro references and static macro cycles

Examples:
  # Lint a single file
  rosetta lint --file main.md --stage translation

  # Lint every .md file under a directory
  rosetta lint --dir prompts/ --stage translation

  # Strict mode (warnings as errors)
  rosetta lint --file main.md --stage translation --strict

  # Re-lint on every change until interrupted
  rosetta lint --dir prompts/ --stage translation --watch

  # JSON output for CI
  rosetta lint --file main.md --stage translation --format json`,
	RunE: lintTemplates,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "template file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of template files")
	lintCmd.Flags().StringVarP(&lintFlags.stage, "stage", "s", "", "pipeline stage (analysis, translation, optimization, proofreading)")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
	lintCmd.Flags().BoolVar(&lintFlags.watch, "watch", false, "re-lint on file changes until interrupted")
}

func lintTemplates(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	stage, err := schema.ParseStage(lintFlags.stage)
	if err != nil {
		return err
	}

	if lintFlags.watch {
		return lintWatch(stage)
	}

	return lintOnce(stage, nil)
}

func lintOnce(stage schema.Stage, collector *metrics.Collector) error {
	files, err := collectTemplateFiles()
	if err != nil {
		return err
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintFile(file, stage))
	}
	recordLintMetrics(collector, stage, results)

	if lintFlags.format == "json" {
		return outputJSON(results)
	}
	return outputText(results, lintFlags.strict)
}

// lintWatch re-runs the lint pass whenever a template file changes,
// until the process is interrupted. When metrics are enabled, each pass is
// counted and the collector is exposed on the configured /metrics endpoint.
func lintWatch(stage schema.Stage) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := lintFlags.dir
	if root == "" {
		root = filepath.Dir(lintFlags.file)
	}

	collector := newCollector(cfg)
	if collector != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: cfg.Telemetry.Metrics.ListenAddress, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "metrics endpoint unavailable: %v\n", err)
			}
		}()
		defer srv.Close()
	}

	watcher, err := prompts.NewWatcher(&prompts.WatcherConfig{Path: root})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	if err := lintOnce(stage, collector); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	ctx := cli.SetupSignalHandler()
	return watcher.Watch(ctx, func() error {
		if err := lintOnce(stage, collector); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	})
}

// recordLintMetrics counts one validation per file on the collector.
func recordLintMetrics(collector *metrics.Collector, stage schema.Stage, results []LintResult) {
	if collector == nil {
		return
	}
	for _, r := range results {
		outcome := "safe"
		if !r.Safe {
			outcome = "unsafe"
		}
		collector.RecordValidation(string(stage), outcome)
	}
}

func collectTemplateFiles() ([]string, error) {
	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}

	if lintFlags.dir != "" {
		err := filepath.Walk(lintFlags.dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(path) == ".md" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list template files: %w", err)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no template files found")
	}
	return files, nil
}

// LintResult represents the validation result for a single template file.
type LintResult struct {
	File     string      `json:"file"`
	Safe     bool        `json:"safe"`
	Errors   []LintIssue `json:"errors,omitempty"`
	Warnings []LintIssue `json:"warnings,omitempty"`
}

// LintIssue represents a single diagnostic.
type LintIssue struct {
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func lintFile(path string, stage schema.Stage) LintResult {
	result := LintResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, LintIssue{
			Category: "io",
			Message:  err.Error(),
		})
		return result
	}

	vr := rtl.Validate(string(data), stage)
	result.Safe = vr.SafeToRender

	for _, d := range vr.Diagnostics.Diagnostics {
		issue := toIssue(d)
		if d.IsError() {
			result.Errors = append(result.Errors, issue)
		} else {
			result.Warnings = append(result.Warnings, issue)
		}
	}
	return result
}

func toIssue(d *rtlErrors.Diagnostic) LintIssue {
	return LintIssue{
		Line:       d.Location.Line,
		Column:     d.Location.Column,
		Category:   string(d.Category),
		Message:    d.Message,
		Suggestion: d.Suggestion,
	}
}

func outputText(results []LintResult, strict bool) error {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if len(result.Errors) == 0 && len(result.Warnings) == 0 {
			fmt.Println("✓ Template is safe to render")
		}

		for _, issue := range result.Errors {
			printIssue(os.Stdout, "✗ Error", issue)
			totalErrors++
		}
		for _, issue := range result.Warnings {
			printIssue(os.Stdout, "⚠  Warning", issue)
			totalWarnings++
		}

		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d error(s), %d warning(s)\n", totalErrors, totalWarnings)

	if strict && totalWarnings > 0 {
		fmt.Println("  Strict mode enabled: treating warnings as errors")
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}
	if totalErrors > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}
	return nil
}

func printIssue(w io.Writer, prefix string, issue LintIssue) {
	fmt.Fprintf(w, "%s: %s", prefix, issue.Message)
	if issue.Line > 0 {
		fmt.Fprintf(w, " (line %d", issue.Line)
		if issue.Column > 0 {
			fmt.Fprintf(w, ", col %d", issue.Column)
		}
		fmt.Fprint(w, ")")
	}
	if issue.Category != "" {
		fmt.Fprintf(w, " [%s]", issue.Category)
	}
	fmt.Fprintln(w)
	if issue.Suggestion != "" {
		fmt.Fprintf(w, "    suggestion: %s\n", issue.Suggestion)
	}
}

func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
