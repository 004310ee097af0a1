// Package cli provides shared helpers for the rosetta command line tool:
// output formatting, command errors, and signal handling.
package cli
