package git

import (
	"errors"
	"testing"
)

func TestParseAuthor(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantName    string
		wantDisplay string
		wantEmail   string
		malformed   bool
	}{
		{name: "Two word name", input: "Jane Doe <jane@example.com>", wantName: "Jane", wantDisplay: "Jane Doe", wantEmail: "jane@example.com"},
		{name: "Single name", input: "alice <alice@example.com>", wantName: "alice", wantDisplay: "alice", wantEmail: "alice@example.com"},
		{name: "Extra spaces", input: "  Bob   Smith   < bob@example.com > ", wantName: "Bob", wantDisplay: "Bob Smith", wantEmail: "bob@example.com"},
		{name: "Empty name", input: "<ghost@example.com>", wantName: "", wantDisplay: "", wantEmail: "ghost@example.com"},
		{name: "Trailing text after email", input: "Jane <jane@example.com> (work)", wantName: "Jane", wantDisplay: "Jane", wantEmail: "jane@example.com"},
		{name: "No email", input: "Jane Doe", wantName: "Jane", wantDisplay: "Jane Doe", malformed: true},
		{name: "Unclosed bracket", input: "Jane <jane@example.com", wantName: "Jane", wantDisplay: "Jane", malformed: true},
		{name: "Empty string", input: "", malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAuthor(tt.input)
			if tt.malformed {
				if !errors.Is(err, ErrMalformedAuthor) {
					t.Fatalf("ParseAuthor(%q) error = %v, expected ErrMalformedAuthor", tt.input, err)
				}
			} else if err != nil {
				t.Fatalf("ParseAuthor(%q) unexpected error: %v", tt.input, err)
			}
			if a.Name != tt.wantName {
				t.Errorf("Name = %q, expected %q", a.Name, tt.wantName)
			}
			if a.DisplayName != tt.wantDisplay {
				t.Errorf("DisplayName = %q, expected %q", a.DisplayName, tt.wantDisplay)
			}
			if a.Email != tt.wantEmail {
				t.Errorf("Email = %q, expected %q", a.Email, tt.wantEmail)
			}
		})
	}
}
