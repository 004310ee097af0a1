// Package prompts is the file-based prompt template library. Templates live
// under root/<category>/<stage>/<name>.md and are identified by that triple.
// The store caches parsed trees; the Watcher invalidates the cache when
// files change on disk, debouncing editor write bursts.
package prompts
