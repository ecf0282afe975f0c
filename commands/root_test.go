package commands

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-saw-monitor/internal/testing/fixtures"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// testEnv isolates HOME and the log file, and returns a base directory with
// a dataset generator rooted at it.
func testEnv(t *testing.T) (string, *fixtures.DatasetGenerator) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SAWMON_LOG_FILE", filepath.Join(home, "app.log"))
	base := t.TempDir()
	return base, fixtures.NewDatasetGenerator(base)
}

// executeCommand runs the command tree with fresh flag values.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCommandStructure(t *testing.T) {
	assert.Equal(t, "go-saw-monitor [command]", rootCmd.Use)
	assert.Contains(t, rootCmd.Short, "Sawmill")
	assert.NotNil(t, rootCmd.PersistentPreRunE)

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"folders", "load", "filter", "cycles", "watch", "config"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
	}{
		{"config", ""},
		{"base-dir", ""},
		{"output", ""},
		{"debug", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
		})
	}
	assert.Equal(t, "o", rootCmd.PersistentFlags().Lookup("output").Shorthand)
}

func TestSubcommandFlags(t *testing.T) {
	tests := []struct {
		cmd          *cobra.Command
		flag         string
		defaultValue string
	}{
		{foldersCmd, "limit", "0"},
		{foldersCmd, "search", ""},
		{loadCmd, "no-export", "false"},
		{loadCmd, "rows", "20"},
		{filterCmd, "shift", ""},
		{filterCmd, "wood", ""},
		{filterCmd, "export", "false"},
		{cyclesCmd, "detail", "0"},
		{cyclesCmd, "policy", ""},
		{watchCmd, "debounce", "2s"},
		{configInitCmd, "force", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name()+"/"+tt.flag, func(t *testing.T) {
			flag := tt.cmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
		})
	}
}

func TestOutputFlagOverridesConfig(t *testing.T) {
	base, _ := testEnv(t)

	_, _, err := executeCommand(t, "--base-dir", base, "-o", "json", "config", "show")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, base, cfg.BaseDir)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	base, _ := testEnv(t)
	t.Setenv("SAWMON_CYCLE_POLICY", "close-at-end")

	stdout, _, err := executeCommand(t, "--base-dir", base, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cycle_policy: close-at-end")
}

func TestInvalidOutputFormat(t *testing.T) {
	base, gen := testEnv(t)
	_, err := gen.WriteDataset("run", fixtures.CycleDataset(start, []int{0, 1}))
	require.NoError(t, err)

	_, _, err = executeCommand(t, "--base-dir", base, "-o", "xml", "load", "run")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestMissingExplicitConfig(t *testing.T) {
	base, _ := testEnv(t)

	_, _, err := executeCommand(t, "--base-dir", base, "--config", filepath.Join(base, "none.yaml"), "folders")
	assert.Error(t, err)
}
