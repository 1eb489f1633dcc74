// Package cmd implements the command-line interface for wintrack.
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wintrack/internal/config"
)

// Config holds all application configuration: the persistent flags plus the
// settings resolved from the config file, the environment and local flags
type Config struct {
	Verbose    bool
	ShowLogs   bool
	ConfigPath string

	config.Config
}

// NewConfigFromFlags loads the config file and environment, then applies any
// flags set explicitly on the command line
func NewConfigFromFlags(cmd *cobra.Command) (*Config, error) {
	path := getStringFlag(cmd, "config")

	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Verbose:    getBoolFlag(cmd, "verbose"),
		ShowLogs:   getBoolFlag(cmd, "logs"),
		ConfigPath: path,
		Config:     *settings,
	}

	if flagChanged(cmd, "process") {
		cfg.Process = getStringFlag(cmd, "process")
	}

	if flagChanged(cmd, "wait") {
		cfg.Wait = getBoolFlag(cmd, "wait")
	}

	if flagChanged(cmd, "timeout") {
		cfg.WaitTimeout = getDurationFlag(cmd, "timeout")
	}

	if flagChanged(cmd, "names") {
		cfg.Names = getBoolFlag(cmd, "names")
	}

	if flagChanged(cmd, "record") {
		cfg.Record = getBoolFlag(cmd, "record")
	}

	if flagChanged(cmd, "db") {
		cfg.Database = getStringFlag(cmd, "db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getBoolFlag retrieves a boolean flag, checking both local and persistent flags
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		// Try persistent flags if not found in local flags
		val, _ = cmd.PersistentFlags().GetBool(name)
	}

	return val
}

func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		val, _ = cmd.PersistentFlags().GetString(name)
	}

	return val
}

func getDurationFlag(cmd *cobra.Command, name string) time.Duration {
	val, _ := cmd.Flags().GetDuration(name)
	return val
}

// flagChanged reports whether the user set the flag, so unset flags never
// override the file or environment
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(name)
	}

	return f != nil && f.Changed
}
