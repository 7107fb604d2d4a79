package report_test

import (
	"testing"

	"hoursbot/internal/report"
)

func TestDirectoryIndex(t *testing.T) {
	t.Parallel()

	members := []report.ChatIdentity{
		{ID: "U01", Email: "ana@example.com"},
		{ID: "U02", Email: "bo@example.com"},
		{ID: "U03", Email: "ana@example.com"}, // duplicate, first must win
		{ID: "U04", Email: ""},                // no email, never indexed
	}
	idx := report.NewDirectoryIndex(members)

	tests := []struct {
		name      string
		email     string
		wantID    string
		wantFound bool
	}{
		{"exact match", "bo@example.com", "U02", true},
		{"first match wins on duplicates", "ana@example.com", "U01", true},
		{"case sensitive", "Ana@example.com", "", false},
		{"unknown email", "zed@example.com", "", false},
		{"empty email never matches", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			id, ok := idx.Lookup(tc.email)
			if ok != tc.wantFound {
				t.Fatalf("Lookup(%q) found = %v, want %v", tc.email, ok, tc.wantFound)
			}
			if id.ID != tc.wantID {
				t.Errorf("Lookup(%q) = %q, want %q", tc.email, id.ID, tc.wantID)
			}
		})
	}

	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
}
