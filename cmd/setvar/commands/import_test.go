package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImportFile(t *testing.T, home, name, content string) string {
	t.Helper()
	path := filepath.Join(home, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunImportJSON(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}
	assumeYes = true
	inFile := writeImportFile(t, home, "vars.json",
		`{"EDITOR": "vim", "PAGER": "less"}`)

	var out bytes.Buffer
	require.NoError(t, runImportWithIO([]string{inFile}, &out, strings.NewReader("")))

	content := readHomeFile(t, home, ".bashrc")
	assert.Contains(t, content, "export EDITOR=vim")
	assert.Contains(t, content, "export PAGER=less")
}

func TestRunImportEnv(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}
	assumeYes = true
	inFile := writeImportFile(t, home, "local.env",
		"EDITOR=vim\n# comment\nGREETING=\"hello world\"\n")

	var out bytes.Buffer
	require.NoError(t, runImportWithIO([]string{inFile}, &out, strings.NewReader("")))

	content := readHomeFile(t, home, ".bashrc")
	assert.Contains(t, content, "export EDITOR=vim")
	assert.Contains(t, content, `export GREETING="hello world"`)
}

func TestRunImportInvalidKeyRejectsWhole(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}
	assumeYes = true
	inFile := writeImportFile(t, home, "vars.json",
		`{"GOOD": "1", "2BAD": "nope"}`)

	var out bytes.Buffer
	require.Error(t, runImportWithIO([]string{inFile}, &out, strings.NewReader("")))
	assert.NoFileExists(t, filepath.Join(home, ".bashrc"))
}

func TestRunImportMultilineValueRejectsWhole(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}
	assumeYes = true
	inFile := writeImportFile(t, home, "vars.json",
		`{"GOOD": "1", "NL": "a\nb"}`)

	var out bytes.Buffer
	require.Error(t, runImportWithIO([]string{inFile}, &out, strings.NewReader("")))
	assert.NoFileExists(t, filepath.Join(home, ".bashrc"))
}

func TestRunImportPatternFilter(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}
	assumeYes = true
	importPatterns = []string{"AWS_*"}
	inFile := writeImportFile(t, home, "vars.json",
		`{"AWS_REGION": "us-east-1", "EDITOR": "vim"}`)

	var out bytes.Buffer
	require.NoError(t, runImportWithIO([]string{inFile}, &out, strings.NewReader("")))

	content := readHomeFile(t, home, ".bashrc")
	assert.Contains(t, content, "export AWS_REGION=us-east-1")
	assert.NotContains(t, content, "EDITOR")
}

func TestRunImportNothingMatches(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}
	assumeYes = true
	importPatterns = []string{"AWS_*"}
	inFile := writeImportFile(t, home, "vars.json", `{"EDITOR": "vim"}`)

	var out bytes.Buffer
	require.NoError(t, runImportWithIO([]string{inFile}, &out, strings.NewReader("")))
	assert.Contains(t, out.String(), "nothing to import")
}

func TestRunImportDeclined(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}
	inFile := writeImportFile(t, home, "vars.json", `{"EDITOR": "vim"}`)

	var out bytes.Buffer
	require.NoError(t, runImportWithIO([]string{inFile}, &out, strings.NewReader("n\n")))

	assert.Contains(t, out.String(), "import cancelled")
	assert.NoFileExists(t, filepath.Join(home, ".bashrc"))
}

func TestRunImportBacksUpExistingFiles(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}
	assumeYes = true
	writeHomeFile(t, home, ".bashrc", "export OLD=1\n")
	inFile := writeImportFile(t, home, "vars.json", `{"EDITOR": "vim"}`)

	var out bytes.Buffer
	require.NoError(t, runImportWithIO([]string{inFile}, &out, strings.NewReader("")))

	entries, err := os.ReadDir(filepath.Join(home, ".setvar-backups"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRunImportMissingFile(t *testing.T) {
	home := setupCommandTest(t)
	shellFlag = []string{"bash"}

	var out bytes.Buffer
	err := runImportWithIO([]string{filepath.Join(home, "absent.json")}, &out, strings.NewReader(""))
	require.Error(t, err)
}
