package vardecl

import (
	"errors"
	"slices"
	"testing"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		key        string
		value      string
		wantLines  []string
		wantAction Action
	}{
		{
			name:       "update existing quotes new value",
			lines:      []string{"export FOO=bar"},
			key:        "FOO",
			value:      "baz qux",
			wantLines:  []string{`export FOO="baz qux"`},
			wantAction: ActionUpdated,
		},
		{
			name:       "uncomment in place at same index",
			lines:      []string{"# header", "# export FOO=old", "alias g=git"},
			key:        "FOO",
			value:      "new",
			wantLines:  []string{"# header", "export FOO=new", "alias g=git"},
			wantAction: ActionUncommented,
		},
		{
			name:       "append to empty file",
			lines:      nil,
			key:        "X",
			value:      "1",
			wantLines:  []string{"export X=1"},
			wantAction: ActionAppended,
		},
		{
			name:       "append inserts blank line after non-blank tail",
			lines:      []string{"alias g=git"},
			key:        "FOO",
			value:      "bar",
			wantLines:  []string{"alias g=git", "", "export FOO=bar"},
			wantAction: ActionAppended,
		},
		{
			name:       "append without extra blank after blank tail",
			lines:      []string{"alias g=git", ""},
			key:        "FOO",
			value:      "bar",
			wantLines:  []string{"alias g=git", "", "export FOO=bar"},
			wantAction: ActionAppended,
		},
		{
			name:       "preserves indentation on update",
			lines:      []string{"\texport FOO=old"},
			key:        "FOO",
			value:      "new",
			wantLines:  []string{"\texport FOO=new"},
			wantAction: ActionUpdated,
		},
		{
			name:       "no duplicate appended when key exists",
			lines:      []string{"export FOO=old", "export BAR=1"},
			key:        "FOO",
			value:      "new",
			wantLines:  []string{"export FOO=new", "export BAR=1"},
			wantAction: ActionUpdated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, action, err := Apply(tt.lines, tt.key, tt.value)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if action != tt.wantAction {
				t.Errorf("action = %q, want %q", action, tt.wantAction)
			}
			if !slices.Equal(got, tt.wantLines) {
				t.Errorf("lines = %q, want %q", got, tt.wantLines)
			}
		})
	}
}

func TestApply_InvalidKey(t *testing.T) {
	_, _, err := Apply(nil, "2BAD", "x")
	if !errors.Is(err, setvarerrors.ErrInvalidKey) {
		t.Errorf("error = %v, want ErrInvalidKey", err)
	}
}

// A value with a line break would split the declaration across two physical
// lines and could never be located again.
func TestApply_MultilineValue(t *testing.T) {
	_, _, err := Apply(nil, "NL", "a\nb")
	if !errors.Is(err, setvarerrors.ErrInvalidValue) {
		t.Errorf("error = %v, want ErrInvalidValue", err)
	}
}

// Applying the same key/value twice must produce the same content as once.
func TestApply_Idempotent(t *testing.T) {
	lines := []string{"# rc", "export FOO=bar", "alias g=git"}

	once, _, err := Apply(lines, "FOO", "value with spaces")
	if err != nil {
		t.Fatal(err)
	}
	twice, action, err := Apply(once, "FOO", "value with spaces")
	if err != nil {
		t.Fatal(err)
	}
	if action != ActionUpdated {
		t.Errorf("second apply action = %q, want %q", action, ActionUpdated)
	}
	if !slices.Equal(once, twice) {
		t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

// Every line other than the target declaration must be byte-identical.
func TestApply_NonInterference(t *testing.T) {
	lines := []string{
		"# my carefully crafted rc   ",
		"export FOO=old",
		"  some_function() {",
		"    echo hi",
		"  }",
		"export BAR=untouched",
	}

	got, _, err := Apply(lines, "FOO", "new")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(lines) {
		t.Fatalf("line count changed: %d -> %d", len(lines), len(got))
	}
	for i := range lines {
		if i == 1 {
			continue
		}
		if got[i] != lines[i] {
			t.Errorf("line %d changed: %q -> %q", i, lines[i], got[i])
		}
	}
}

// Apply must not mutate its input slice.
func TestApply_InputUntouched(t *testing.T) {
	lines := []string{"export FOO=old"}
	orig := slices.Clone(lines)

	if _, _, err := Apply(lines, "FOO", "new"); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(lines, orig) {
		t.Errorf("input mutated: %q", lines)
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		key         string
		wantLines   []string
		wantRemoved bool
	}{
		{
			name:        "removes active declaration",
			lines:       []string{"# rc", "export FOO=bar", "alias g=git"},
			key:         "FOO",
			wantLines:   []string{"# rc", "alias g=git"},
			wantRemoved: true,
		},
		{
			name:        "removes commented declaration",
			lines:       []string{"# export FOO=bar"},
			key:         "FOO",
			wantLines:   []string{},
			wantRemoved: true,
		},
		{
			name:        "absent key is a no-op",
			lines:       []string{"export BAR=1"},
			key:         "NOPE",
			wantLines:   []string{"export BAR=1"},
			wantRemoved: false,
		},
		{
			name:        "leaves surrounding blank lines alone",
			lines:       []string{"", "export FOO=bar", ""},
			key:         "FOO",
			wantLines:   []string{"", ""},
			wantRemoved: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := Remove(tt.lines, tt.key)
			if removed != tt.wantRemoved {
				t.Errorf("removed = %v, want %v", removed, tt.wantRemoved)
			}
			if !slices.Equal(got, tt.wantLines) {
				t.Errorf("lines = %q, want %q", got, tt.wantLines)
			}
		})
	}
}
