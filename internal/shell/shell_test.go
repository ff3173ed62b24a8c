package shell

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
)

func TestCandidatePaths(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    []string
	}{
		{Bash, []string{".bashrc", ".bash_profile", ".profile"}},
		{Zsh, []string{".zshrc", ".zprofile", ".zshenv"}},
		{Sh, []string{".profile"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			got := CandidatePaths(tt.dialect, "/home/u")
			if len(got) != len(tt.want) {
				t.Fatalf("got %d paths, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				want := filepath.Join("/home/u", name)
				if got[i] != want {
					t.Errorf("path[%d] = %q, want %q", i, got[i], want)
				}
			}
		})
	}
}

func TestParseDialect(t *testing.T) {
	for _, name := range []string{"bash", "zsh", "sh"} {
		d, err := ParseDialect(name)
		if err != nil {
			t.Errorf("ParseDialect(%q) error = %v", name, err)
		}
		if string(d) != name {
			t.Errorf("ParseDialect(%q) = %q", name, d)
		}
	}

	if _, err := ParseDialect("fish"); err == nil {
		t.Error("ParseDialect(fish) should fail")
	}
}

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		shellPath string
		want      Dialect
		wantErr   bool
	}{
		{"/bin/bash", Bash, false},
		{"/usr/local/bin/bash", Bash, false},
		{"/bin/zsh", Zsh, false},
		{"/opt/homebrew/bin/zsh", Zsh, false},
		{"/bin/sh", Sh, false},
		{"/bin/dash", Sh, false},
		{"/usr/bin/fish", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.shellPath, func(t *testing.T) {
			got, err := DetectFrom(tt.shellPath)
			if tt.wantErr {
				if !errors.Is(err, setvarerrors.ErrUnsupportedShell) {
					t.Errorf("error = %v, want ErrUnsupportedShell", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFrom(%q) error = %v", tt.shellPath, err)
			}
			if got != tt.want {
				t.Errorf("DetectFrom(%q) = %q, want %q", tt.shellPath, got, tt.want)
			}
		})
	}
}

func TestResolveWriteTarget(t *testing.T) {
	tests := []struct {
		name  string
		cands []Candidate
		key   string
		want  string
	}{
		{
			name: "file already declaring the key wins",
			cands: []Candidate{
				{Path: "/h/.bashrc", Exists: true, Lines: []string{"alias g=git"}},
				{Path: "/h/.bash_profile", Exists: true, Lines: []string{"export FOO=1"}},
			},
			key:  "FOO",
			want: "/h/.bash_profile",
		},
		{
			name: "commented declaration counts as present",
			cands: []Candidate{
				{Path: "/h/.bashrc", Exists: true, Lines: nil},
				{Path: "/h/.bash_profile", Exists: true, Lines: []string{"# export FOO=1"}},
			},
			key:  "FOO",
			want: "/h/.bash_profile",
		},
		{
			name: "first existing file when key absent everywhere",
			cands: []Candidate{
				{Path: "/h/.bashrc", Exists: false},
				{Path: "/h/.bash_profile", Exists: true},
				{Path: "/h/.profile", Exists: true},
			},
			key:  "FOO",
			want: "/h/.bash_profile",
		},
		{
			name: "first candidate when none exist",
			cands: []Candidate{
				{Path: "/h/.bashrc", Exists: false},
				{Path: "/h/.bash_profile", Exists: false},
			},
			key:  "FOO",
			want: "/h/.bashrc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWriteTarget(tt.cands, tt.key)
			if err != nil {
				t.Fatalf("ResolveWriteTarget() error = %v", err)
			}
			if got.Path != tt.want {
				t.Errorf("path = %q, want %q", got.Path, tt.want)
			}
		})
	}
}

func TestResolveWriteTarget_NoCandidates(t *testing.T) {
	if _, err := ResolveWriteTarget(nil, "FOO"); err == nil {
		t.Error("expected error for empty candidate list")
	}
}

func TestReadTargets(t *testing.T) {
	cands := []Candidate{
		{Path: "/h/.zshrc", Exists: true},
		{Path: "/h/.zprofile", Exists: false},
		{Path: "/h/.zshenv", Exists: true},
	}

	got := ReadTargets(cands)
	paths := make([]string, len(got))
	for i, c := range got {
		paths[i] = c.Path
	}
	want := []string{"/h/.zshrc", "/h/.zshenv"}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %q, want %q", paths, want)
	}
}
