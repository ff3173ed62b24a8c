package vardecl

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
)

// keyPattern validates variable names: a letter or underscore followed by
// letters, digits, or underscores.
var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateKey checks that key is a legal shell variable name.
// Invalid names are rejected before any file is touched.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return errors.Wrapf(setvarerrors.ErrInvalidKey, "%q", key)
	}
	return nil
}

// Declaration is a located variable declaration inside one file: a view into
// the file's current text, valid only until the file is rewritten.
type Declaration struct {
	// Key is the variable name.
	Key string

	// Value is the raw logical value, with quoting removed.
	Value string

	// Line is the 0-based line index of the declaration.
	Line int

	// Commented reports whether the declaration is commented out.
	Commented bool

	// Indent is the line's leading whitespace, preserved on rewrite.
	Indent string
}

// exportSpec describes the syntactic pieces of an export line.
type exportSpec struct {
	indent    string
	commented bool
	key       string
	literal   string
}

// splitExportLine parses a line of the form
//
//	[indent] [# ] export KEY=literal
//
// and reports whether it is an export declaration at all.
func splitExportLine(line string) (exportSpec, bool) {
	var spec exportSpec

	rest := strings.TrimLeft(line, " \t")
	spec.indent = line[:len(line)-len(rest)]

	if strings.HasPrefix(rest, "#") {
		spec.commented = true
		rest = strings.TrimLeft(rest[1:], " \t")
	}

	if !strings.HasPrefix(rest, "export") {
		return exportSpec{}, false
	}
	rest = rest[len("export"):]

	// Require whitespace between "export" and the key; "exportFOO=" is not a declaration.
	trimmed := strings.TrimLeft(rest, " \t")
	if len(trimmed) == len(rest) {
		return exportSpec{}, false
	}
	rest = trimmed

	eq := strings.IndexByte(rest, '=')
	if eq <= 0 {
		return exportSpec{}, false
	}

	key := rest[:eq]
	if !keyPattern.MatchString(key) {
		return exportSpec{}, false
	}

	spec.key = key
	spec.literal = strings.TrimSpace(rest[eq+1:])
	return spec, true
}

// Locate scans lines top to bottom for a declaration of key, active or
// commented out. The word-boundary match is exact: "export KEY2=" never
// matches KEY. The first occurrence wins, whether commented or active.
//
// Returns ErrMalformedLiteral if the located declaration's value cannot
// be parsed.
func Locate(lines []string, key string) (Declaration, bool, error) {
	for i, line := range lines {
		spec, ok := splitExportLine(line)
		if !ok || spec.key != key {
			continue
		}

		value, err := Parse(spec.literal)
		if err != nil {
			return Declaration{}, false, errors.Wrapf(err, "line %d", i+1)
		}

		return Declaration{
			Key:       key,
			Value:     value,
			Line:      i,
			Commented: spec.commented,
			Indent:    spec.indent,
		}, true, nil
	}
	return Declaration{}, false, nil
}

// Contains reports whether the file declares key, active or commented out.
// Unlike Locate it never parses values, so it works on files with malformed
// literals; use it for presence checks only.
func Contains(lines []string, key string) bool {
	for _, line := range lines {
		if spec, ok := splitExportLine(line); ok && spec.key == key {
			return true
		}
	}
	return false
}

// LocateAll returns every active declaration in the file, first occurrence
// per key. Commented-out declarations are skipped: enumeration reports what
// the file actually sets.
//
// Returns ErrMalformedLiteral if any active declaration's value cannot be
// parsed; the file is surfaced as a whole so other files stay unaffected.
func LocateAll(lines []string) ([]Declaration, error) {
	var decls []Declaration
	seen := make(map[string]struct{})

	for i, line := range lines {
		spec, ok := splitExportLine(line)
		if !ok || spec.commented {
			continue
		}
		if _, dup := seen[spec.key]; dup {
			// First occurrence wins within a file.
			continue
		}

		value, err := Parse(spec.literal)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}

		seen[spec.key] = struct{}{}
		decls = append(decls, Declaration{
			Key:    spec.key,
			Value:  value,
			Line:   i,
			Indent: spec.indent,
		})
	}

	return decls, nil
}
