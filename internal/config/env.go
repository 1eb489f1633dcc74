package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables that override the config file
const (
	EnvProcess     = "WINTRACK_PROCESS"
	EnvDatabase    = "WINTRACK_DB"
	EnvWaitTimeout = "WINTRACK_WAIT_TIMEOUT"
	EnvRecord      = "WINTRACK_RECORD"
)

// LoadFromEnv applies environment overrides to cfg. Empty variables are ignored.
func LoadFromEnv(cfg *Config) error {
	if process := os.Getenv(EnvProcess); process != "" {
		cfg.Process = process
	}

	if db := os.Getenv(EnvDatabase); db != "" {
		cfg.Database = db
	}

	if timeout := os.Getenv(EnvWaitTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWaitTimeout, err)
		}
		cfg.WaitTimeout = d
	}

	if record := os.Getenv(EnvRecord); record != "" {
		v, err := strconv.ParseBool(record)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRecord, err)
		}
		cfg.Record = v
	}

	return nil
}
