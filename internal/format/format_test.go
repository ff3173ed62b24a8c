package format

import (
	"strings"
	"testing"
	"time"
)

var sampleVars = map[string]string{
	"EDITOR":  "vim",
	"GOPATH":  "$HOME/go",
	"GREETED": "hello world",
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", JSON, false},
		{"JSON", JSON, false},
		{"env", Env, false},
		{"dotenv", Env, false},
		{"shell", Shell, false},
		{"sh", Shell, false},
		{"yml", YAML, false},
		{"toml", TOML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"vars.json", JSON},
		{"local.env", Env},
		{".env", Env},
		{".env.local", Env},
		{"setup.sh", Shell},
		{"vars.yaml", YAML},
		{"vars.yml", YAML},
		{"vars.toml", TOML},
		{"unknown.txt", JSON},
	}
	for _, tt := range tests {
		if got := Detect(tt.path); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEncodeJSON(t *testing.T) {
	data, err := Encode(JSON, sampleVars, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"EDITOR\": \"vim\",\n  \"GOPATH\": \"$HOME/go\",\n  \"GREETED\": \"hello world\"\n}\n"
	if string(data) != want {
		t.Errorf("json = %q, want %q", data, want)
	}
}

func TestEncodeEnvQuoting(t *testing.T) {
	data, err := Encode(Env, sampleVars, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	want := "EDITOR=vim\nGOPATH=\"\\$HOME/go\"\nGREETED=\"hello world\"\n"
	if string(data) != want {
		t.Errorf("env = %q, want %q", data, want)
	}
}

func TestEncodeShell(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	data, err := Encode(Shell, map[string]string{"EDITOR": "vim"}, now)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "#!/bin/sh\n") {
		t.Errorf("missing shebang: %q", s)
	}
	if !strings.Contains(s, "export EDITOR=vim\n") {
		t.Errorf("missing export: %q", s)
	}
	if Shell.FileMode() != 0o755 {
		t.Errorf("shell mode = %v", Shell.FileMode())
	}
}

func TestDecodeJSON(t *testing.T) {
	vars, err := Decode(JSON, []byte(`{"EDITOR": "vim", "PORT": 8080, "DEBUG": true, "EMPTY": null}`))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"EDITOR": "vim", "PORT": "8080", "DEBUG": "true", "EMPTY": ""}
	assertVars(t, vars, want)
}

func TestDecodeJSONRejectsNested(t *testing.T) {
	if _, err := Decode(JSON, []byte(`{"A": {"nested": 1}}`)); err == nil {
		t.Fatal("expected error for nested value")
	}
}

func TestDecodeJSONRejectsBadKey(t *testing.T) {
	if _, err := Decode(JSON, []byte(`{"1BAD": "x"}`)); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestDecodeJSONRejectsMultilineValue(t *testing.T) {
	if _, err := Decode(JSON, []byte(`{"NL": "a\nb"}`)); err == nil {
		t.Fatal("expected error for multiline value")
	}
}

func TestDecodeEnv(t *testing.T) {
	input := "# comment\nEDITOR=vim\nGREETING=\"hello world\"\nexport PAGER=less\n"
	vars, err := Decode(Env, []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if vars["EDITOR"] != "vim" {
		t.Errorf("EDITOR = %q", vars["EDITOR"])
	}
	if vars["GREETING"] != "hello world" {
		t.Errorf("GREETING = %q", vars["GREETING"])
	}
	if vars["PAGER"] != "less" {
		t.Errorf("PAGER = %q", vars["PAGER"])
	}
}

func TestDecodeShell(t *testing.T) {
	input := "#!/bin/sh\n# a script\nexport EDITOR=vim\nalias ll='ls -l'\nexport MSG=\"hello world\"\n"
	vars, err := Decode(Shell, []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	assertVars(t, vars, map[string]string{"EDITOR": "vim", "MSG": "hello world"})
}

func TestDecodeYAML(t *testing.T) {
	vars, err := Decode(YAML, []byte("EDITOR: vim\nPORT: 8080\n"))
	if err != nil {
		t.Fatal(err)
	}
	assertVars(t, vars, map[string]string{"EDITOR": "vim", "PORT": "8080"})
}

func TestDecodeTOML(t *testing.T) {
	vars, err := Decode(TOML, []byte("EDITOR = \"vim\"\nPORT = 8080\n"))
	if err != nil {
		t.Fatal(err)
	}
	assertVars(t, vars, map[string]string{"EDITOR": "vim", "PORT": "8080"})
}

func assertVars(t *testing.T, got, want map[string]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("vars = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
