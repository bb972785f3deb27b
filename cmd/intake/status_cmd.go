package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/intakesync/internal/cli"
	"github.com/sgx-labs/intakesync/internal/config"
	"github.com/sgx-labs/intakesync/internal/ledger"
)

func statusCmd() *cobra.Command {
	var jsonOut bool
	var limit int
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent sync runs",
		Long:  "Shows the outcome of recent reconciliation runs from the local run ledger.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(jsonOut, limit)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 5, "Number of runs to show")
	return cmd
}

// RunData is one run in JSON output.
type RunData struct {
	ID         int64          `json:"id"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	DryRun     bool           `json:"dry_run"`
	Categories []CategoryData `json:"categories"`
}

// CategoryData is one track's counts in JSON output.
type CategoryData struct {
	Category  string `json:"category"`
	Processed int    `json:"processed"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Errored   int    `json:"errored"`
	Invalid   int    `json:"invalid"`
	Unmatched int    `json:"unmatched"`
}

func runStatus(jsonOut bool, limit int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", cfg.Ledger.Path, err)
	}
	defer db.Close()

	runs, err := db.RecentRuns(limit)
	if err != nil {
		return err
	}

	if jsonOut {
		out := make([]RunData, 0, len(runs))
		for _, r := range runs {
			rd := RunData{
				ID:         r.ID,
				StartedAt:  r.StartedAt,
				DurationMS: r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
				DryRun:     r.DryRun,
			}
			for _, c := range r.Counts {
				rd.Categories = append(rd.Categories, CategoryData(c))
			}
			out = append(out, rd)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	cli.Header("Sync History")

	if len(runs) == 0 {
		fmt.Println()
		cli.Warn("no runs recorded yet — run 'intake sync'")
		cli.Footer()
		return nil
	}

	cli.Label("Ledger", cli.ShortenHome(cfg.Ledger.Path))

	for _, r := range runs {
		name := fmt.Sprintf("Run #%d — %s", r.ID, r.StartedAt.Local().Format("Jan 2 15:04"))
		if r.DryRun {
			name += " (dry run)"
		}
		cli.Section(name)
		for _, c := range r.Counts {
			line := fmt.Sprintf("%s processed, %s created, %s updated",
				cli.FormatNumber(c.Processed), cli.FormatNumber(c.Created), cli.FormatNumber(c.Updated))
			if c.Errored > 0 {
				line += fmt.Sprintf(", %s errored", cli.FormatNumber(c.Errored))
			}
			if c.Unmatched > 0 {
				line += fmt.Sprintf(", %s unmatched", cli.FormatNumber(c.Unmatched))
			}
			cli.Label(c.Category, line)
		}
	}

	cli.Footer()
	return nil
}
