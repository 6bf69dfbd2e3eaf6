// Package main is the entry point for the slotchecker CLI.
//
// Usage:
//
//	slotchecker -c config.yml            # Watch for slots
//	slotchecker -v                       # Same, with debug logs and stack traces
//	slotchecker validate -c config.yml   # Validate configuration
//	slotchecker version                  # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/slotchecker"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultConfigPath = "config.yml"

// rootCmd runs the checker when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "slotchecker",
	Short: "Passport appointment slot checker for Paris",
	Long: `slotchecker polls the Paris passport appointment service for open slots
and sends a Telegram message for every slot it finds.

The configuration file is reloaded automatically when it changes.

Environment:
  SLOT_CHECKER_CONFIG    path to the config file (overridden by --config)
  SLOT_CHECKER_DEBUG     any non-false value enables debug logs
  SLOT_CHECKER_SITE_URL  override the appointment search endpoint

Example config:
  to_date: 2025-06-01
  days: [1, 2, 3, 4, 5]
  refresh: 30
  send:
    telegram:
      token: ${TELEGRAM_TOKEN}
      chat_id: "123456789"`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runChecker,
}

// Execute runs the root command and returns the process exit status.
// Every error goes through the slotchecker error boundary.
func Execute() int {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}
	if cmd == nil {
		cmd = rootCmd
	}
	s := loadSettings(cmd)
	return slotchecker.Report(os.Stderr, newLogger(s.Debug), err, s.Debug)
}

func main() {
	os.Exit(Execute())
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this slotchecker binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("slotchecker %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "include debugging logs")

	rootCmd.AddCommand(versionCmd)
}
