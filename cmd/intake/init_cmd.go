package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/intakesync/internal/cli"
	"github.com/sgx-labs/intakesync/internal/config"
	"github.com/sgx-labs/intakesync/internal/ledger"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	cli.Banner(Version)

	path := configPath
	if path == "" {
		path = config.ConfigFilePath()
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Println()
		cli.Warn(fmt.Sprintf("config already exists at %s", cli.ShortenHome(path)))
	} else {
		if err := config.Generate(path); err != nil {
			return err
		}
		fmt.Println()
		cli.Pass(fmt.Sprintf("wrote %s", cli.ShortenHome(path)))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	db, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("create ledger %s: %w", cfg.Ledger.Path, err)
	}
	db.Close()
	cli.Pass(fmt.Sprintf("ledger ready at %s", cli.ShortenHome(cfg.Ledger.Path)))

	cli.Box([]string{
		"Next steps:",
		"",
		"1. Fill in the spreadsheet and Notion ids",
		"2. Point GOOGLE_APPLICATION_CREDENTIALS at",
		"   your service-account key",
		"3. Run 'intake doctor' to verify access",
		"4. Run 'intake sync --dry-run'",
	})
	cli.Footer()
	return nil
}
