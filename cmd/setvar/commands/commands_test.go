package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuMee-Dev/setvar/internal/config"
)

// setupCommandTest gives each test an isolated home directory and resets
// all package-level flag state. Returns the home directory.
func setupCommandTest(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/bin/bash")

	shellFlag = nil
	verbosity = 0
	quiet = false
	logFormat = "text"
	logFile = ""
	dryRun = false
	assumeYes = false
	noBackup = false
	configFile = ""

	listPatterns = nil
	listSyncCheck = false
	listJSON = false
	syncPatterns = nil
	exportFormat = ""
	exportPatterns = nil
	importFormat = ""
	importPatterns = nil
	backupCreateMessage = ""
	backupListJSON = false
	backupPruneKeep = -1

	cfg = &config.Config{
		Version: 1,
		Backup: config.BackupConfig{
			Enabled:   true,
			Dir:       filepath.Join(home, ".setvar-backups"),
			Retention: 10,
		},
	}
	t.Cleanup(func() { cfg = nil })

	return home
}

func writeHomeFile(t *testing.T, home, name, content string) string {
	t.Helper()
	path := filepath.Join(home, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readHomeFile(t *testing.T, home, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(home, name))
	require.NoError(t, err)
	return string(data)
}
