package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rosetta-hq/rosetta/pkg/rtl/schema"
)

var varsFlags struct {
	stage  string
	format string
}

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "List the variables and aliases legal in a stage",
	Long: `List every canonical variable legal in a pipeline stage, with its
description, whether it is required, and the deprecated aliases the stage
still honors.

Examples:
  rosetta vars --stage translation
  rosetta vars --stage proofreading --format json`,
	RunE: listVars,
}

func init() {
	rootCmd.AddCommand(varsCmd)

	varsCmd.Flags().StringVarP(&varsFlags.stage, "stage", "s", "", "pipeline stage (required)")
	varsCmd.Flags().StringVar(&varsFlags.format, "format", "text", "output format: text, json")

	varsCmd.MarkFlagRequired("stage")
}

// VarInfo describes one variable in the vars command output.
type VarInfo struct {
	Path        string `json:"path"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// AliasInfo describes one deprecated alias in the vars command output.
type AliasInfo struct {
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
}

// VarsReport is the JSON output of the vars command.
type VarsReport struct {
	Stage     string      `json:"stage"`
	Variables []VarInfo   `json:"variables"`
	Aliases   []AliasInfo `json:"aliases,omitempty"`
}

func listVars(cmd *cobra.Command, args []string) error {
	stage, err := schema.ParseStage(varsFlags.stage)
	if err != nil {
		return err
	}

	required := make(map[string]bool)
	for _, path := range schema.RequiredPaths(stage) {
		required[path] = true
	}

	report := VarsReport{Stage: string(stage)}
	for _, v := range schema.VariablesForStage(stage) {
		report.Variables = append(report.Variables, VarInfo{
			Path:        v.Path,
			Description: v.Description,
			Required:    required[v.Path],
		})
	}
	for _, a := range schema.AliasesForStage(stage) {
		report.Aliases = append(report.Aliases, AliasInfo{
			Name:      a.Name,
			Canonical: a.Canonical,
		})
	}

	if varsFlags.format == "json" {
		return outputJSON(report)
	}

	fmt.Printf("Variables legal in stage %s:\n\n", stage)
	for _, v := range report.Variables {
		marker := " "
		if v.Required {
			marker = "*"
		}
		fmt.Printf("  %s %-32s %s\n", marker, v.Path, v.Description)
	}
	fmt.Println("\n  * = required")

	if len(report.Aliases) > 0 {
		fmt.Println("\nDeprecated aliases:")
		for _, a := range report.Aliases {
			fmt.Printf("  %-24s -> %s\n", a.Name, a.Canonical)
		}
	}
	fmt.Println("\nuser.* variables are legal in every stage.")
	return nil
}
