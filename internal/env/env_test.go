package env

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/shell"
	"github.com/TuMee-Dev/setvar/internal/vardecl"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func newHomeRegistry(t *testing.T) (*shell.Registry, string) {
	t.Helper()
	home := t.TempDir()
	reg, err := shell.NewRegistry(shell.WithHome(home))
	if err != nil {
		t.Fatal(err)
	}
	return reg, home
}

func TestBuildSetFirstFileWins(t *testing.T) {
	cands := []shell.Candidate{
		{Path: "/h/.bashrc", Exists: true, Lines: []string{`export EDITOR=vim`}},
		{Path: "/h/.bash_profile", Exists: true, Lines: []string{`export EDITOR=nano`, `export PAGER=less`}},
	}

	set, warnings, fileErrs := BuildSet(cands)
	if len(fileErrs) != 0 {
		t.Fatal(fileErrs)
	}
	if got := set["EDITOR"].Value; got != "vim" {
		t.Errorf("EDITOR = %q, want vim", got)
	}
	if got := set["PAGER"].Path; got != "/h/.bash_profile" {
		t.Errorf("PAGER path = %q", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one", warnings)
	}
	w := warnings[0]
	if w.Key != "EDITOR" || w.Path != "/h/.bash_profile" || w.WinnerPath != "/h/.bashrc" {
		t.Errorf("warning = %+v", w)
	}
}

func TestBuildSetSkipsAbsentFiles(t *testing.T) {
	cands := []shell.Candidate{
		{Path: "/h/.bashrc"},
		{Path: "/h/.bash_profile", Exists: true, Lines: []string{`export A=1`}},
	}
	set, _, fileErrs := BuildSet(cands)
	if len(fileErrs) != 0 {
		t.Fatal(fileErrs)
	}
	if len(set) != 1 || set["A"].Value != "1" {
		t.Errorf("set = %v", set)
	}
}

func TestBuildSetSkipsMalformedFile(t *testing.T) {
	cands := []shell.Candidate{
		{Path: "/h/.bashrc", Exists: true, Lines: []string{`export BAD="unterminated`}},
		{Path: "/h/.bash_profile", Exists: true, Lines: []string{`export CLEAN=1`}},
	}

	set, _, fileErrs := BuildSet(cands)
	if got := set["CLEAN"].Value; got != "1" {
		t.Errorf("CLEAN = %q, want 1", got)
	}
	if _, ok := set["BAD"]; ok {
		t.Error("malformed file contributed to the set")
	}
	if len(fileErrs) != 1 {
		t.Fatalf("fileErrs = %v, want one", fileErrs)
	}
	fe := fileErrs[0]
	if fe.Path != "/h/.bashrc" {
		t.Errorf("path = %q", fe.Path)
	}
	if !errors.Is(fe, setvarerrors.ErrMalformedLiteral) {
		t.Errorf("err = %v, want ErrMalformedLiteral", fe.Err)
	}
}

func TestStoreSetCreatesFile(t *testing.T) {
	reg, home := newHomeRegistry(t)
	store := NewStore(reg)

	results, err := store.Set([]shell.Dialect{shell.Bash}, "EDITOR", "vim")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %v", results)
	}
	r := results[0]
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	if r.Action != vardecl.ActionAppended {
		t.Errorf("action = %q, want appended", r.Action)
	}
	want := filepath.Join(home, ".bashrc")
	if r.Path != want {
		t.Errorf("path = %q, want %q", r.Path, want)
	}
	if got := readFile(t, want); got != "export EDITOR=vim\n" {
		t.Errorf("content = %q", got)
	}
}

func TestStoreSetUpdatesInPlace(t *testing.T) {
	reg, home := newHomeRegistry(t)
	writeFile(t, filepath.Join(home, ".bashrc"), "# comment\nexport EDITOR=vim\nalias ll='ls -l'\n")
	store := NewStore(reg)

	results, err := store.Set([]shell.Dialect{shell.Bash}, "EDITOR", "nano")
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	if r.Action != vardecl.ActionUpdated {
		t.Errorf("action = %q, want updated", r.Action)
	}
	if !r.HadOld || r.OldValue != "vim" {
		t.Errorf("old value = %q (had=%v), want vim", r.OldValue, r.HadOld)
	}
	got := readFile(t, filepath.Join(home, ".bashrc"))
	want := "# comment\nexport EDITOR=nano\nalias ll='ls -l'\n"
	if got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestStoreSetPrefersDeclaringFile(t *testing.T) {
	reg, home := newHomeRegistry(t)
	writeFile(t, filepath.Join(home, ".bashrc"), "alias ll='ls -l'\n")
	writeFile(t, filepath.Join(home, ".bash_profile"), "export EDITOR=vim\n")
	store := NewStore(reg)

	results, err := store.Set([]shell.Dialect{shell.Bash}, "EDITOR", "nano")
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	if want := filepath.Join(home, ".bash_profile"); r.Path != want {
		t.Errorf("path = %q, want %q", r.Path, want)
	}
	if got := readFile(t, filepath.Join(home, ".bashrc")); got != "alias ll='ls -l'\n" {
		t.Errorf(".bashrc modified: %q", got)
	}
}

func TestStoreSetDryRun(t *testing.T) {
	reg, home := newHomeRegistry(t)
	store := NewStore(reg, WithDryRun(true))

	results, err := store.Set([]shell.Dialect{shell.Bash}, "EDITOR", "vim")
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err != nil {
		t.Fatal(results[0].Err)
	}
	if _, err := os.Stat(filepath.Join(home, ".bashrc")); !os.IsNotExist(err) {
		t.Error("dry run created a file")
	}
}

func TestStoreSetPartialFailure(t *testing.T) {
	reg, home := newHomeRegistry(t)
	writeFile(t, filepath.Join(home, ".bashrc"), "export EDITOR=\"unterminated\n")
	store := NewStore(reg)

	results, err := store.Set([]shell.Dialect{shell.Bash, shell.Zsh}, "EDITOR", "vim")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %v", results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Dialect != shell.Bash {
		t.Fatalf("failed = %+v, want one bash failure", failed)
	}
	// The other dialect still gets its write.
	if got := readFile(t, filepath.Join(home, ".zshrc")); got != "export EDITOR=vim\n" {
		t.Errorf(".zshrc = %q", got)
	}
}

func TestStoreSetInvalidKey(t *testing.T) {
	reg, _ := newHomeRegistry(t)
	store := NewStore(reg)
	if _, err := store.Set([]shell.Dialect{shell.Bash}, "1BAD", "x"); err == nil {
		t.Fatal("expected invalid key error")
	}
}

func TestStoreGet(t *testing.T) {
	reg, home := newHomeRegistry(t)
	writeFile(t, filepath.Join(home, ".zshrc"), "export GOPATH=\"$HOME/go\"\n")
	store := NewStore(reg)

	v, ok, err := store.Get(shell.Zsh, "GOPATH")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("variable not found")
	}
	if v.Value != "$HOME/go" {
		t.Errorf("value = %q", v.Value)
	}

	_, ok, err = store.Get(shell.Zsh, "MISSING")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("found a variable that does not exist")
	}
}

func TestStoreRemoveAllDeclaringFiles(t *testing.T) {
	reg, home := newHomeRegistry(t)
	writeFile(t, filepath.Join(home, ".bashrc"), "export EDITOR=vim\nexport PAGER=less\n")
	writeFile(t, filepath.Join(home, ".bash_profile"), "export EDITOR=emacs\n")
	store := NewStore(reg)

	results, err := store.Remove([]shell.Dialect{shell.Bash}, "EDITOR")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want two", results)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatal(r.Err)
		}
		if r.Action != vardecl.ActionRemoved {
			t.Errorf("action = %q", r.Action)
		}
	}
	if got := readFile(t, filepath.Join(home, ".bashrc")); got != "export PAGER=less\n" {
		t.Errorf(".bashrc = %q", got)
	}
	if got := readFile(t, filepath.Join(home, ".bash_profile")); got != "" {
		t.Errorf(".bash_profile = %q", got)
	}
}

func TestStoreRemoveMissingKeyNoResults(t *testing.T) {
	reg, home := newHomeRegistry(t)
	writeFile(t, filepath.Join(home, ".bashrc"), "export A=1\n")
	store := NewStore(reg)

	results, err := store.Remove([]shell.Dialect{shell.Bash}, "MISSING")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestStoreSetRejectsMultilineValue(t *testing.T) {
	reg, home := newHomeRegistry(t)
	store := NewStore(reg)

	_, err := store.Set([]shell.Dialect{shell.Bash}, "NL", "a\nb")
	if !errors.Is(err, setvarerrors.ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
	if _, statErr := os.Stat(filepath.Join(home, ".bashrc")); !os.IsNotExist(statErr) {
		t.Error("rejected value touched a file")
	}
}

func TestStoreLoadSkipsMalformedFile(t *testing.T) {
	reg, home := newHomeRegistry(t)
	writeFile(t, filepath.Join(home, ".bashrc"), "export BAD=\"unterminated\n")
	writeFile(t, filepath.Join(home, ".bash_profile"), "export EDITOR=vim\n")
	store := NewStore(reg)

	set, _, fileErrs, err := store.Load(shell.Bash)
	if err != nil {
		t.Fatal(err)
	}
	if got := set["EDITOR"].Value; got != "vim" {
		t.Errorf("EDITOR = %q, want vim", got)
	}
	if len(fileErrs) != 1 || fileErrs[0].Path != filepath.Join(home, ".bashrc") {
		t.Fatalf("fileErrs = %v, want the malformed .bashrc", fileErrs)
	}

	// A key in a clean file is still readable through Get.
	v, ok, err := store.Get(shell.Bash, "EDITOR")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v.Value != "vim" {
		t.Errorf("get = %+v (ok=%v)", v, ok)
	}
}

func TestStoreWriteTargets(t *testing.T) {
	reg, home := newHomeRegistry(t)
	writeFile(t, filepath.Join(home, ".zshrc"), "export A=1\n")
	store := NewStore(reg)

	paths, err := store.WriteTargets([]shell.Dialect{shell.Zsh, shell.Bash}, "A")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(home, ".zshrc"), filepath.Join(home, ".bashrc")}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}
