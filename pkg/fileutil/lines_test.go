package fileutil

import (
	"slices"
	"testing"
)

func TestSplitJoinLines(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		wantLines    []string
		finalNewline bool
	}{
		{"empty", "", nil, true},
		{"single line with newline", "export FOO=bar\n", []string{"export FOO=bar"}, true},
		{"single line without newline", "export FOO=bar", []string{"export FOO=bar"}, false},
		{"blank lines preserved", "a\n\nb\n", []string{"a", "", "b"}, true},
		{"trailing blank line", "a\n\n", []string{"a", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, nl := SplitLines([]byte(tt.data))
			if !slices.Equal(lines, tt.wantLines) {
				t.Errorf("lines = %q, want %q", lines, tt.wantLines)
			}
			if nl != tt.finalNewline {
				t.Errorf("finalNewline = %v, want %v", nl, tt.finalNewline)
			}

			// Round trip back to the original bytes.
			if got := string(JoinLines(lines, nl)); got != tt.data {
				t.Errorf("JoinLines round trip = %q, want %q", got, tt.data)
			}
		})
	}
}
