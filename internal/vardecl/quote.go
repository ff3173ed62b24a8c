package vardecl

import (
	"strings"

	"github.com/cockroachdb/errors"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
)

// specialChars are the characters that force a value into double quotes:
// whitespace, shell metacharacters, quoting characters, glob characters,
// and the comment marker.
const specialChars = " \t\n$`\"'\\#;&|<>()*?[]{}!"

// ValidateValue checks that value can be written as a single declaration
// line. Double-quote syntax has no escape for a literal newline, so a value
// containing one would span two physical lines and could never be read back.
func ValidateValue(value string) error {
	if strings.ContainsAny(value, "\n\r") {
		return errors.Wrap(setvarerrors.ErrInvalidValue, "value contains a line break")
	}
	return nil
}

// Render returns a literal suitable for placement after KEY= in a shell
// assignment. Plain values pass through unquoted; anything containing a
// shell-significant character is wrapped in double quotes with embedded
// double quotes, backslashes, and dollar signs escaped. The empty value
// renders as "". Values must pass ValidateValue first.
//
// Render and Parse are inverses: Parse(Render(v)) == v for every v.
func Render(value string) string {
	if value == "" {
		return `""`
	}
	if !strings.ContainsAny(value, specialChars) {
		return value
	}

	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '"' || c == '\\' || c == '$' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// Parse is the inverse of Render: it strips matching outer quotes and
// unescapes backslash sequences that are meaningful inside double quotes.
// Single-quoted content is taken verbatim with no escape processing,
// matching shell single-quote semantics. Bare literals pass through as-is.
//
// Returns ErrMalformedLiteral when quotes are unbalanced.
func Parse(literal string) (string, error) {
	if literal == "" {
		return "", nil
	}

	switch literal[0] {
	case '\'':
		if len(literal) < 2 || literal[len(literal)-1] != '\'' {
			return "", errors.Wrapf(setvarerrors.ErrMalformedLiteral, "unbalanced single quote in %q", literal)
		}
		return literal[1 : len(literal)-1], nil
	case '"':
		return parseDoubleQuoted(literal)
	default:
		return literal, nil
	}
}

// parseDoubleQuoted strips the outer double quotes and processes escapes.
// Only \", \\, and \$ are escape sequences; any other backslash is literal.
func parseDoubleQuoted(literal string) (string, error) {
	var b strings.Builder
	b.Grow(len(literal))

	i := 1
	for i < len(literal) {
		c := literal[i]
		switch c {
		case '\\':
			if i+1 < len(literal) {
				next := literal[i+1]
				if next == '"' || next == '\\' || next == '$' {
					b.WriteByte(next)
					i += 2
					continue
				}
			}
			b.WriteByte(c)
			i++
		case '"':
			// Closing quote must terminate the literal.
			if i != len(literal)-1 {
				return "", errors.Wrapf(setvarerrors.ErrMalformedLiteral, "content after closing quote in %q", literal)
			}
			return b.String(), nil
		default:
			b.WriteByte(c)
			i++
		}
	}

	return "", errors.Wrapf(setvarerrors.ErrMalformedLiteral, "unbalanced double quote in %q", literal)
}
