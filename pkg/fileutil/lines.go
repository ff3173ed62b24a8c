package fileutil

import "strings"

// SplitLines splits file content into lines and reports whether the content
// ended with a newline. The trailing-newline convention is preserved so a
// read-modify-write cycle reproduces the original bytes for untouched lines.
func SplitLines(data []byte) (lines []string, finalNewline bool) {
	if len(data) == 0 {
		return nil, true
	}
	s := string(data)
	finalNewline = strings.HasSuffix(s, "\n")
	if finalNewline {
		s = strings.TrimSuffix(s, "\n")
	}
	return strings.Split(s, "\n"), finalNewline
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string, finalNewline bool) []byte {
	if len(lines) == 0 {
		return nil
	}
	s := strings.Join(lines, "\n")
	if finalNewline {
		s += "\n"
	}
	return []byte(s)
}
