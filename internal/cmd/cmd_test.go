package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/autoplot/internal/config"
)

// --- Helpers ---

func setHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", dir)
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	return dir
}

// saveFastConfig writes a config without the dtale settle delay.
func saveFastConfig(t *testing.T) {
	t.Helper()
	cfg := config.Default()
	cfg.SettleMS = 0
	require.NoError(t, cfg.Save())
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "autoplot", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String(DebugFlag, "", "debug log file")
	root.AddCommand(RunCmd(), ConfigCmd())
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newTestRoot()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
