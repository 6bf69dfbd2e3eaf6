package main

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SLOT_CHECKER"

// settings are the process-level options, from flags then environment.
type settings struct {
	ConfigPath string
	Debug      bool
	SiteURL    string
}

// loadSettings resolves settings for cmd. Flags set on the command line win
// over SLOT_CHECKER_* environment variables.
func loadSettings(cmd *cobra.Command) settings {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if f := cmd.Flags().Lookup("config"); f != nil {
		_ = v.BindPFlag("config", f)
	}
	v.SetDefault("config", defaultConfigPath)

	verbose, _ := cmd.Flags().GetBool("verbose")

	return settings{
		ConfigPath: v.GetString("config"),
		Debug:      verbose || envEnabled(v.GetString("debug")),
		SiteURL:    v.GetString("site_url"),
	}
}

// envEnabled treats any non-empty value as true, except explicit false values.
func envEnabled(s string) bool {
	if s == "" {
		return false
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return true
}
