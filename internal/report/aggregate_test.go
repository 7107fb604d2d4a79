package report_test

import (
	"testing"
	"time"

	"hoursbot/internal/report"
)

var testBaseline = report.Baseline{
	Hours:             40,
	ReducedRole:       "Flexible",
	ReducedMultiplier: 0.8,
}

func testWindow(t *testing.T) report.Window {
	t.Helper()
	w, err := report.ResolveWindow(time.Date(2024, time.June, 14, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	return w
}

func TestSumHours(t *testing.T) {
	t.Parallel()

	w := testWindow(t) // 2024-06-10 .. 2024-06-14

	entries := []report.TimeEntry{
		{UserID: 1, Hours: 7.5, SpentDate: "2024-06-10"},
		{UserID: 1, Hours: 8, SpentDate: "2024-06-11"},
		{UserID: 2, Hours: 6, SpentDate: "2024-06-11"},
		{UserID: 1, Hours: 4, SpentDate: "2024-06-07"}, // before the window
		{UserID: 1, Hours: 2, SpentDate: "bogus"},
	}

	tests := []struct {
		name   string
		userID int64
		want   float64
	}{
		{"sums only the user's in-window entries", 1, 15.5},
		{"other user unaffected", 2, 6},
		{"no entries at all", 3, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := report.SumHours(entries, tc.userID, w); got != tc.want {
				t.Errorf("SumHours(user %d) = %v, want %v", tc.userID, got, tc.want)
			}
		})
	}
}

func TestBaselineExpected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		roles []string
		want  float64
	}{
		{"full schedule", []string{"Engineering"}, 40},
		{"reduced schedule is 0.8x", []string{"Flexible"}, 32},
		{"reduced among other roles", []string{"Exec", "Flexible"}, 32},
		{"no roles", nil, 40},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			u := report.TrackedUser{ID: 1, Roles: tc.roles}
			if got := testBaseline.Expected(u); got != tc.want {
				t.Errorf("Expected() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		roles        []string
		logged       float64
		wantExpected float64
		wantMissing  float64
	}{
		{
			name:         "full schedule ten hours behind",
			logged:       30,
			wantExpected: 40,
			wantMissing:  10,
		},
		{
			name:         "nearly complete week",
			logged:       38,
			wantExpected: 40,
			wantMissing:  2,
		},
		{
			name:         "reduced schedule four hours behind",
			roles:        []string{"Flexible"},
			logged:       28,
			wantExpected: 32,
			wantMissing:  4,
		},
		{
			name:         "overtime never goes negative",
			logged:       45,
			wantExpected: 40,
			wantMissing:  0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			u := report.TrackedUser{ID: 7, Email: "a@example.com", IsActive: true, Roles: tc.roles}
			agg := report.NewAggregate(u, "U07", tc.logged, testBaseline)

			if agg.Expected != tc.wantExpected {
				t.Errorf("Expected = %v, want %v", agg.Expected, tc.wantExpected)
			}
			if agg.Missing != tc.wantMissing {
				t.Errorf("Missing = %v, want %v", agg.Missing, tc.wantMissing)
			}
			if agg.Missing < 0 {
				t.Errorf("Missing = %v, must never be negative", agg.Missing)
			}
			if agg.Logged != tc.logged || agg.ChatID != "U07" {
				t.Errorf("aggregate fields not carried through: %+v", agg)
			}
		})
	}
}
