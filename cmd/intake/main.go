// Package main is the entrypoint for the intake CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// configPath is the global --config flag value.
var configPath string

func main() {
	root := &cobra.Command{
		Use:   "intake",
		Short: "Reconcile spreadsheet intake into Notion",
		Long:  "intakesync reads form responses from Google Sheets, matches referrals to applications, and keeps a Notion database current.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(initCmd())
	root.AddCommand(syncCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	// Global --config flag
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to intakesync.toml (overrides discovery)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the intakesync version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("intakesync v%s\n", Version)
		},
	}
}
