package vardecl

import (
	"slices"
	"strings"
)

// Action describes what Apply did to the file.
type Action string

const (
	// ActionUpdated means an existing active declaration was rewritten in place.
	ActionUpdated Action = "updated"

	// ActionAppended means a new declaration was appended to the end of the file.
	ActionAppended Action = "appended"

	// ActionUncommented means a commented-out declaration was replaced with an
	// active one at the same line index.
	ActionUncommented Action = "uncommented"

	// ActionRemoved means an active declaration was deleted.
	ActionRemoved Action = "removed"
)

// Apply sets key to value in the file's lines and returns the new lines.
//
// If a declaration of key already exists (active or commented out), that
// exact line is replaced, preserving its indentation; a duplicate is never
// appended. Otherwise a new declaration is appended, preceded by one blank
// line when the file is non-empty and its last line is non-blank.
//
// Every line other than the target declaration is returned byte-identical.
func Apply(lines []string, key, value string) ([]string, Action, error) {
	if err := ValidateKey(key); err != nil {
		return nil, "", err
	}
	if err := ValidateValue(value); err != nil {
		return nil, "", err
	}

	rendered := "export " + key + "=" + Render(value)

	decl, found, err := Locate(lines, key)
	if err != nil {
		return nil, "", err
	}

	if found {
		out := slices.Clone(lines)
		out[decl.Line] = decl.Indent + rendered
		if decl.Commented {
			return out, ActionUncommented, nil
		}
		return out, ActionUpdated, nil
	}

	out := slices.Clone(lines)
	if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
		out = append(out, "")
	}
	out = append(out, rendered)
	return out, ActionAppended, nil
}

// Remove deletes the declaration of key, active or commented, and reports
// whether a line was removed. When the key is absent the input is returned
// unchanged; that is not an error. No surrounding blank lines are cleaned up.
func Remove(lines []string, key string) ([]string, bool) {
	for i, line := range lines {
		spec, ok := splitExportLine(line)
		if !ok || spec.key != key {
			continue
		}
		out := make([]string, 0, len(lines)-1)
		out = append(out, lines[:i]...)
		out = append(out, lines[i+1:]...)
		return out, true
	}
	return lines, false
}
