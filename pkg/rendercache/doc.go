// Package rendercache caches rendered prompt text keyed by a SHA-256 of the
// template, stage, and variable environment. Identical inputs always produce
// identical prompts, so a hit skips the render entirely.
package rendercache
