package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hiveflow/hiveflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("config file:     %s\n", config.UserConfigPath())
		fmt.Printf("store backend:   %s\n", cfg.Store.Backend)
		if cfg.Store.Backend == "redis" {
			fmt.Printf("redis url:       %s\n", cfg.Store.RedisURL)
		}
		fmt.Printf("model:           %s\n", orDefault(cfg.Anthropic.Model, "(sdk default)"))
		fmt.Printf("bedrock:         %t\n", cfg.Anthropic.UseAWSBedrock)
		fmt.Printf("max turns:       %d\n", cfg.Defaults.MaxTurns)
		fmt.Printf("api key set:     %t\n", cfg.Anthropic.APIKey != "")
		fmt.Printf("role overrides:  %s\n", orDefault(cfg.Roles.OverridesFile, "(none)"))
		fmt.Printf("signal dir:      %s\n", orDefault(cfg.Signals.Dir, "(disabled)"))
		return nil
	},
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
