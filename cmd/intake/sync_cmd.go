package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/intakesync/internal/classify"
	"github.com/sgx-labs/intakesync/internal/cli"
	"github.com/sgx-labs/intakesync/internal/config"
	"github.com/sgx-labs/intakesync/internal/ledger"
	"github.com/sgx-labs/intakesync/internal/logging"
	"github.com/sgx-labs/intakesync/internal/notion"
	"github.com/sgx-labs/intakesync/internal/reconcile"
	"github.com/sgx-labs/intakesync/internal/sheets"
	runsync "github.com/sgx-labs/intakesync/internal/sync"
)

func syncCmd() *cobra.Command {
	var dryRun bool
	var kindFlag string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one reconciliation pass",
		Long: `Reads all form responses, matches referrals to applications, and
writes the result to the Notion database. Rows that fail individually
are logged and counted; they never abort the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(dryRun, kindFlag)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intended writes without touching Notion")
	cmd.Flags().StringVar(&kindFlag, "kind", "all", "Track to process: founder, searcher, or all")
	return cmd
}

func parseKinds(flag string) ([]classify.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "all":
		return nil, nil // Runner default: both tracks
	case "founder":
		return []classify.Kind{classify.KindFounder}, nil
	case "searcher":
		return []classify.Kind{classify.KindSearcher}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q (expected founder, searcher, or all)", flag)
	}
}

func runSync(dryRun bool, kindFlag string) error {
	kinds, err := parseKinds(kindFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := sheets.NewReader(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.ReadRange)
	if err != nil {
		return err
	}

	db, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	var sink reconcile.Sink
	if dryRun {
		sink = runsync.NewDryRunSink(log)
	} else {
		client := notion.NewClient(cfg.Notion.Token, cfg.Notion.DatabaseID, log)
		sink = notion.NewSink(client, db)
	}

	res, err := runsync.New(runsync.Options{
		Source:          source,
		Sink:            sink,
		Ledger:          db,
		Log:             log,
		MaxEditDistance: cfg.Sync.MaxEditDistance,
		Kinds:           kinds,
		DryRun:          dryRun,
	}).Run(ctx)
	if err != nil {
		return err
	}

	printSyncSummary(res)
	return nil
}

func printSyncSummary(res *runsync.Result) {
	title := "Sync Complete"
	if res.DryRun {
		title = "Sync Complete (dry run)"
	}
	cli.Header(title)

	cli.Label("Rows fetched", cli.FormatNumber(res.TotalRows))
	if res.Unknown > 0 {
		cli.Label("Unknown intent", cli.FormatNumber(res.Unknown))
	}
	cli.Label("Duration", res.Finished.Sub(res.Started).Round(100*time.Millisecond).String())

	for _, kr := range res.Kinds {
		cli.Section(trackTitle(kr.Kind.String()))
		cli.Label("Processed", cli.FormatNumber(kr.Counts.Processed))
		cli.Label("Created", cli.FormatNumber(kr.Counts.Created))
		cli.Label("Updated", cli.FormatNumber(kr.Counts.Updated))
		cli.Label("Unmatched", cli.FormatNumber(kr.Counts.Unmatched))
		if kr.Invalid > 0 {
			cli.Label("Incomplete", cli.FormatNumber(kr.Invalid))
		}
		if kr.Counts.Errored > 0 {
			cli.Label("Errored", cli.FormatNumber(kr.Counts.Errored))
		}
		cli.Label("Success rate", cli.SuccessRate(kr.Counts.Processed, kr.Counts.Errored))
	}

	cli.Footer()
}

// trackTitle turns "founder" into "Founders" for section headings.
func trackTitle(kind string) string {
	if kind == "" {
		return ""
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + "s"
}
