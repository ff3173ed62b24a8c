// Package format encodes and decodes variable maps for the import and
// export operations.
package format

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/TuMee-Dev/setvar/internal/vardecl"
	"github.com/TuMee-Dev/setvar/pkg/fileutil"
)

// Format identifies one interchange format.
type Format string

const (
	JSON  Format = "json"
	Env   Format = "env"
	Shell Format = "shell"
	YAML  Format = "yaml"
	TOML  Format = "toml"
)

// Formats returns all supported formats.
func Formats() []Format {
	return []Format{JSON, Env, Shell, YAML, TOML}
}

// Parse resolves a user-supplied format name.
func Parse(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "env", "dotenv":
		return Env, nil
	case "shell", "sh":
		return Shell, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", errors.Newf("unknown format %q (supported: json, env, shell, yaml, toml)", s)
}

// Detect guesses the format from a file's extension. An unrecognized or
// missing extension defaults to JSON.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".env":
		return Env
	case ".sh":
		return Shell
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	}
	if strings.HasPrefix(filepath.Base(path), ".env") {
		return Env
	}
	return JSON
}

// FileMode returns the permission bits an exported file of this format
// should carry. Shell scripts are executable.
func (f Format) FileMode() fs.FileMode {
	if f == Shell {
		return 0o755
	}
	return 0o644
}

// Encode serializes vars in the given format. Keys are emitted in sorted
// order for every format so exports diff cleanly.
func Encode(f Format, vars map[string]string, now time.Time) ([]byte, error) {
	// json, yaml, and toml all marshal string-keyed maps in sorted key order.
	switch f {
	case JSON:
		data, err := json.MarshalIndent(vars, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encoding json")
		}
		return append(data, '\n'), nil
	case Env:
		return encodeEnv(vars), nil
	case Shell:
		return encodeShell(vars, now), nil
	case YAML:
		data, err := yaml.Marshal(vars)
		if err != nil {
			return nil, errors.Wrap(err, "encoding yaml")
		}
		return data, nil
	case TOML:
		data, err := toml.Marshal(vars)
		if err != nil {
			return nil, errors.Wrap(err, "encoding toml")
		}
		return data, nil
	}
	return nil, errors.Newf("unknown format %q", f)
}

func sortedKeys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// encodeEnv writes KEY=value lines with shell-safe quoting, one per key,
// sorted. The output is valid both as a dotenv file and as shell input.
func encodeEnv(vars map[string]string) []byte {
	var b strings.Builder
	for _, k := range sortedKeys(vars) {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(vardecl.Render(vars[k]))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// encodeShell writes a sourceable script of export statements.
func encodeShell(vars map[string]string, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "# Generated by setvar on %s\n\n", now.Format(time.RFC3339))
	for _, k := range sortedKeys(vars) {
		b.WriteString("export ")
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(vardecl.Render(vars[k]))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Decode parses data in the given format into a variable map. Every key is
// validated as a shell variable name and every value as writable on a single
// declaration line; a bad entry fails the whole decode so a partial import
// never happens.
func Decode(f Format, data []byte) (map[string]string, error) {
	var vars map[string]string
	var err error

	switch f {
	case JSON:
		vars, err = decodeJSON(data)
	case Env:
		vars, err = decodeEnv(data)
	case Shell:
		vars, err = decodeShell(data)
	case YAML:
		vars, err = decodeYAML(data)
	case TOML:
		vars, err = decodeTOML(data)
	default:
		return nil, errors.Newf("unknown format %q", f)
	}
	if err != nil {
		return nil, err
	}

	for k, v := range vars {
		if err := vardecl.ValidateKey(k); err != nil {
			return nil, err
		}
		if err := vardecl.ValidateValue(v); err != nil {
			return nil, errors.Wrapf(err, "%s", k)
		}
	}
	return vars, nil
}

func decodeJSON(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}
	return stringify(raw)
}

func decodeEnv(data []byte) (map[string]string, error) {
	env, err := gotenv.StrictParse(strings.NewReader(string(data)))
	if err != nil {
		return nil, errors.Wrap(err, "parsing env")
	}
	return map[string]string(env), nil
}

// decodeShell accepts a script of export statements, such as one produced
// by Encode. Non-export lines are ignored.
func decodeShell(data []byte) (map[string]string, error) {
	lines, _ := fileutil.SplitLines(data)
	decls, err := vardecl.LocateAll(lines)
	if err != nil {
		return nil, err
	}
	vars := make(map[string]string, len(decls))
	for _, d := range decls {
		vars[d.Key] = d.Value
	}
	return vars, nil
}

func decodeYAML(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}
	return stringify(raw)
}

func decodeTOML(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing toml")
	}
	return stringify(raw)
}

// stringify converts scalar values to strings. Nested structures are
// rejected: an environment variable has no natural encoding for them.
func stringify(raw map[string]any) (map[string]string, error) {
	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			vars[k] = val
		case bool:
			vars[k] = fmt.Sprintf("%t", val)
		case float64:
			vars[k] = formatNumber(val)
		case int64:
			vars[k] = fmt.Sprintf("%d", val)
		case int:
			vars[k] = fmt.Sprintf("%d", val)
		case nil:
			vars[k] = ""
		default:
			return nil, errors.Newf("key %q has non-scalar value of type %T", k, v)
		}
	}
	return vars, nil
}

// formatNumber renders a float the way it was most likely written: without
// a decimal point when it is integral.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
