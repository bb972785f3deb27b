package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/sgx-labs/intakesync/internal/config"
)

func configCmd() *cobra.Command {
	showConfig := func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return toml.NewEncoder(os.Stdout).Encode(cfg.Redacted())
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage intakesync configuration",
		RunE:  showConfig,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration with secrets redacted",
		RunE:  showConfig,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print path to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fmt.Println(configPath)
				return nil
			}
			fmt.Println(config.ConfigFilePath())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "generate [path]",
		Short: "Write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFilePath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Generate(path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	})

	return cmd
}
