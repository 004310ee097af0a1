package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rosetta-hq/rosetta/pkg/config"
	"rosetta-hq/rosetta/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rosetta",
	Short: "Rosetta - prompt template engine for ePub translation pipelines",
	Long: `Rosetta validates and renders RTL prompt templates for the stages of an
ePub translation pipeline (analysis, translation, optimization,
proofreading).

It provides:
  - Static validation of templates per pipeline stage
  - Rendering against layered variable environments
  - A file-based template library with hot reload
  - Render history and a rendered-prompt cache`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file named by --config, or the
// defaults when no file is given.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// newLogger builds the process logger from configuration, raising the
// level to debug when --verbose is set.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg)
}
