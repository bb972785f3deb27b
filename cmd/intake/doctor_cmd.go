package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/intakesync/internal/cli"
	"github.com/sgx-labs/intakesync/internal/config"
	"github.com/sgx-labs/intakesync/internal/ledger"
	"github.com/sgx-labs/intakesync/internal/logging"
	"github.com/sgx-labs/intakesync/internal/notion"
	"github.com/sgx-labs/intakesync/internal/sheets"
)

func doctorCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and connectivity",
		Long:  "Runs health checks: config is complete, the ledger opens, and both Google Sheets and Notion are reachable with the configured credentials.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// DoctorResult represents a single health check result.
type DoctorResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "skip", "fail"
	Message string `json:"message,omitempty"`
}

func runDoctor(jsonOut bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var results []DoctorResult
	record := func(name, status, message string) {
		results = append(results, DoctorResult{Name: name, Status: status, Message: message})
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		record("config", "fail", err.Error())
		return reportDoctor(results, jsonOut)
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingConfig) {
			record("config", "fail", err.Error())
		} else {
			record("config", "fail", fmt.Sprintf("invalid: %v", err))
		}
	} else {
		record("config", "pass", "all required values present")
	}
	configOK := results[len(results)-1].Status == "pass"

	if cfg.Sheets.CredentialsFile == "" {
		record("credentials file", "skip", "not configured")
	} else if _, err := os.Stat(cfg.Sheets.CredentialsFile); err != nil {
		record("credentials file", "fail", fmt.Sprintf("cannot read %s", cli.ShortenHome(cfg.Sheets.CredentialsFile)))
	} else {
		record("credentials file", "pass", cli.ShortenHome(cfg.Sheets.CredentialsFile))
	}
	credsOK := results[len(results)-1].Status == "pass"

	if db, err := ledger.Open(cfg.Ledger.Path); err != nil {
		record("ledger", "fail", err.Error())
	} else {
		db.Close()
		record("ledger", "pass", cli.ShortenHome(cfg.Ledger.Path))
	}

	if !configOK || !credsOK {
		record("google sheets", "skip", "fix config first")
	} else if reader, err := sheets.NewReader(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.ReadRange); err != nil {
		record("google sheets", "fail", err.Error())
	} else if err := reader.Ping(ctx); err != nil {
		record("google sheets", "fail", err.Error())
	} else {
		record("google sheets", "pass", "spreadsheet reachable")
	}

	if !configOK {
		record("notion", "skip", "fix config first")
	} else if err := notion.NewClient(cfg.Notion.Token, cfg.Notion.DatabaseID, logging.Nop()).Ping(ctx); err != nil {
		record("notion", "fail", err.Error())
	} else {
		record("notion", "pass", "database reachable")
	}

	return reportDoctor(results, jsonOut)
}

func reportDoctor(results []DoctorResult, jsonOut bool) error {
	var passed, skipped, failed int
	for _, r := range results {
		switch r.Status {
		case "pass":
			passed++
		case "skip":
			skipped++
		default:
			failed++
		}
	}

	if jsonOut {
		report := struct {
			Checks  []DoctorResult `json:"checks"`
			Summary struct {
				Total   int `json:"total"`
				Passed  int `json:"passed"`
				Skipped int `json:"skipped"`
				Failed  int `json:"failed"`
			} `json:"summary"`
		}{Checks: results}
		report.Summary.Total = len(results)
		report.Summary.Passed = passed
		report.Summary.Skipped = skipped
		report.Summary.Failed = failed

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		cli.Header("Doctor")
		fmt.Println()
		for _, r := range results {
			line := r.Name
			if r.Message != "" {
				line += ": " + r.Message
			}
			switch r.Status {
			case "pass":
				cli.Pass(line)
			case "skip":
				cli.Warn(line)
			default:
				cli.Fail(line)
			}
		}
		cli.Footer()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}
