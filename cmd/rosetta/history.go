package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rosetta-hq/rosetta/pkg/cli"
	"rosetta-hq/rosetta/pkg/history"
)

var historyFlags struct {
	project string
	stage   string
	limit   int
	format  string
	follow  bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query and prune the render history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded renders, newest first",
	Long: `List render records from the history store.

Examples:
  rosetta history list --config rosetta.yaml
  rosetta history list --project der-weg --stage translation --limit 20`,
	RunE: listHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records past the configured retention",
	Long: `Apply the configured retention policy: delete records older than
history.retention.days and trim the store to history.retention.max_records.

By default the policy is applied once. With --follow the command stays
running and re-applies it on the history.retention.schedule cron expression
until interrupted.

Examples:
  rosetta history prune --config rosetta.yaml
  rosetta history prune --config rosetta.yaml --follow`,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyFlags.project, "project", "", "filter by project")
	historyListCmd.Flags().StringVarP(&historyFlags.stage, "stage", "s", "", "filter by stage")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 50, "maximum records to list")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")

	historyPruneCmd.Flags().BoolVar(&historyFlags.follow, "follow", false, "keep running, pruning on the configured cron schedule")
}

func openHistoryStore() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	storeCfg := history.DefaultStoreConfig()
	storeCfg.Path = cfg.History.Path
	return history.NewStore(storeCfg)
}

// HistoryEntry is one record in the history list output.
type HistoryEntry struct {
	ID          string `json:"id"`
	Project     string `json:"project,omitempty"`
	Stage       string `json:"stage"`
	TemplateID  string `json:"template_id"`
	OutputChars int    `json:"output_chars"`
	Warnings    int    `json:"warnings"`
	Errors      int    `json:"errors"`
	DurationMs  int64  `json:"duration_ms"`
	CreatedAt   string `json:"created_at"`
}

func listHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), &history.Query{
		Project: historyFlags.project,
		Stage:   historyFlags.stage,
		Limit:   historyFlags.limit,
	})
	if err != nil {
		return err
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, HistoryEntry{
			ID:          r.ID,
			Project:     r.Project,
			Stage:       r.Stage,
			TemplateID:  r.TemplateID,
			OutputChars: r.OutputChars,
			Warnings:    r.WarningCount,
			Errors:      r.ErrorCount,
			DurationMs:  r.Duration.Milliseconds(),
			CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	if historyFlags.format == "json" {
		return outputJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No records.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-13s %-24s %5d chars  %dw/%de  %dms  %s\n",
			e.CreatedAt, e.Stage, e.TemplateID, e.OutputChars,
			e.Warnings, e.Errors, e.DurationMs, e.Project)
	}
	return nil
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	pruner := history.NewPruner(store, &history.RetentionConfig{
		RetentionDays: cfg.History.Retention.Days,
		MaxRecords:    cfg.History.Retention.MaxRecords,
		PruneSchedule: cfg.History.Retention.Schedule,
	})

	ctx := context.Background()
	if historyFlags.follow {
		ctx = cli.SetupSignalHandler()
	}

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d record(s).\n", deleted)

	if !historyFlags.follow {
		return nil
	}

	if cfg.History.Retention.Schedule == "" {
		return fmt.Errorf("--follow requires history.retention.schedule to be set")
	}

	scheduler := history.NewScheduler(pruner)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("Pruning on schedule %q until interrupted.\n", cfg.History.Retention.Schedule)

	<-ctx.Done()
	scheduler.Stop()
	return nil
}
