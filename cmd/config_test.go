package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/internal/config"
	"github.com/Norgate-AV/wintrack/internal/testutil"
)

// newWatchLikeCommand builds a command with the persistent and watch flags
func newWatchLikeCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().BoolP("verbose", "V", false, "")
	cmd.PersistentFlags().BoolP("logs", "l", false, "")
	cmd.PersistentFlags().StringP("config", "c", "", "")
	cmd.Flags().StringP("process", "p", "", "")
	cmd.Flags().BoolP("wait", "w", false, "")
	cmd.Flags().Duration("timeout", 0, "")
	cmd.Flags().BoolP("record", "r", false, "")
	cmd.Flags().String("db", "", "")
	cmd.Flags().BoolP("names", "n", false, "")

	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{config.EnvProcess, config.EnvDatabase, config.EnvWaitTimeout, config.EnvRecord} {
		t.Setenv(name, "")
	}
}

func TestNewConfigFromFlags_Precedence(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.CreateTestConfigFile(t, dir, `
process: file.exe
wait: true
wait_timeout: 30s
database: file.db
`)

	tests := []struct {
		name        string
		env         map[string]string
		args        []string
		wantProcess string
		wantDB      string
		wantTimeout time.Duration
	}{
		{
			name:        "file only",
			args:        []string{"-c", path},
			wantProcess: "file.exe",
			wantDB:      "file.db",
			wantTimeout: 30 * time.Second,
		},
		{
			name:        "env over file",
			env:         map[string]string{config.EnvProcess: "env.exe", config.EnvDatabase: "env.db"},
			args:        []string{"-c", path},
			wantProcess: "env.exe",
			wantDB:      "env.db",
			wantTimeout: 30 * time.Second,
		},
		{
			name:        "flags over env",
			env:         map[string]string{config.EnvProcess: "env.exe"},
			args:        []string{"-c", path, "-p", "flag.exe", "--db", "flag.db", "--timeout", "5s"},
			wantProcess: "flag.exe",
			wantDB:      "flag.db",
			wantTimeout: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := NewConfigFromFlags(newWatchLikeCommand(t, tt.args...))
			require.NoError(t, err)

			assert.Equal(t, tt.wantProcess, cfg.Process)
			assert.Equal(t, tt.wantDB, cfg.Database)
			assert.Equal(t, tt.wantTimeout, cfg.WaitTimeout)
			assert.True(t, cfg.Wait, "wait comes from the file")
			assert.Equal(t, path, cfg.ConfigPath)
		})
	}
}

func TestNewConfigFromFlags_UnsetFlagsKeepFileValues(t *testing.T) {
	clearEnv(t)

	dir := testutil.CreateTempDir(t)
	path := testutil.CreateTestConfigFile(t, dir, "names: true\nrecord: true\n")

	cfg, err := NewConfigFromFlags(newWatchLikeCommand(t, "-c", path, "-V"))
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Names)
	assert.True(t, cfg.Record)
	assert.Equal(t, config.DefaultProcess, cfg.Process)
}

func TestNewConfigFromFlags_FlagCanDisableFileValue(t *testing.T) {
	clearEnv(t)

	dir := testutil.CreateTempDir(t)
	path := testutil.CreateTestConfigFile(t, dir, "names: true\n")

	cfg, err := NewConfigFromFlags(newWatchLikeCommand(t, "-c", path, "--names=false"))
	require.NoError(t, err)

	assert.False(t, cfg.Names)
}

func TestNewConfigFromFlags_Errors(t *testing.T) {
	clearEnv(t)

	dir := testutil.CreateTempDir(t)
	path := testutil.CreateTestConfigFile(t, dir, "process: cs2.exe\n")

	_, err := NewConfigFromFlags(newWatchLikeCommand(t, "-c", dir+"/missing.yaml"))
	assert.Error(t, err, "Explicit config path must exist")

	_, err = NewConfigFromFlags(newWatchLikeCommand(t, "-c", path, "-p", ""))
	assert.Error(t, err, "Empty process from a flag must fail validation")

	_, err = NewConfigFromFlags(newWatchLikeCommand(t, "-c", path, "--timeout", "-1s"))
	assert.Error(t, err, "Negative timeout must fail validation")
}
