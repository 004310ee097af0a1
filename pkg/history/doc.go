// Package history is the render audit trail: every template render can be
// recorded with its project, stage, template id, diagnostic summary, and
// timing, backed by SQLite.
//
// Writes go through the async Recorder so rendering never blocks on disk.
// Retention is enforced by the Pruner, either on demand or on a cron
// schedule via the Scheduler.
package history
