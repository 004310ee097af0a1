// Package config loads and validates the Rosetta configuration from a YAML
// file, applies defaults, and supports ROSETTA_* environment variable
// overrides.
package config
