package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"rosetta-hq/rosetta/pkg/rtl/schema"
)

var macrosFlags struct {
	format string
}

var macrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "List the built-in macros",
	Long: `List the built-in macros available to every template. User-defined
macros of the same name shadow these.`,
	RunE: listMacros,
}

func init() {
	rootCmd.AddCommand(macrosCmd)

	macrosCmd.Flags().StringVar(&macrosFlags.format, "format", "text", "output format: text, json")
}

func listMacros(cmd *cobra.Command, args []string) error {
	macros := schema.DefaultMacros()

	if macrosFlags.format == "json" {
		return outputJSON(macros)
	}

	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("@%s:\n  %s\n\n", name, macros[name])
	}
	return nil
}
