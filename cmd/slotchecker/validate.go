package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/slotchecker/config"
)

// validateCmd validates a config file without starting the checker.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a slotchecker configuration file without polling.

This command parses the YAML, expands environment variables, and validates
all fields.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details logged to stderr)

Example:
  slotchecker validate -c config.yml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s := loadSettings(cmd)
	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	channel := "none (slots are only logged)"
	if target, ok := cfg.Target(); ok {
		channel = string(target.Kind)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Window:   %s %s -> %s %s\n", cfg.FromDate, cfg.FromTime, cfg.ToDate, cfg.ToTime)
	fmt.Printf("  Persons:  %d\n", cfg.PersonNumber)
	fmt.Printf("  Days:     %v\n", cfg.Days)
	fmt.Printf("  Refresh:  %s\n", cfg.RefreshInterval())
	fmt.Printf("  Channel:  %s\n", channel)

	return nil
}
