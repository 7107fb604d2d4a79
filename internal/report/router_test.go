package report_test

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"hoursbot/internal/report"
)

// fakeChannel records sends and optionally fails every one of them.
type fakeChannel struct {
	name  string
	fail  error
	sends []report.Message
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(_ context.Context, msg report.Message) error {
	f.sends = append(f.sends, msg)
	return f.fail
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPartition(t *testing.T) {
	t.Parallel()

	aggs := []report.UserAggregate{
		{User: report.TrackedUser{ID: 1, Roles: []string{"Engineering"}}},
		{User: report.TrackedUser{ID: 2, Roles: []string{"Exec"}}},
		{User: report.TrackedUser{ID: 3}},
		{User: report.TrackedUser{ID: 4, Roles: []string{"Exec", "Flexible"}}},
	}

	parts := report.Partition(aggs, "Exec")

	var generalIDs, execIDs []int64
	for _, a := range parts[report.AudienceGeneral] {
		generalIDs = append(generalIDs, a.User.ID)
	}
	for _, a := range parts[report.AudienceExecutive] {
		execIDs = append(execIDs, a.User.ID)
	}

	if !reflect.DeepEqual(generalIDs, []int64{1, 3}) {
		t.Errorf("general = %v, want [1 3]", generalIDs)
	}
	if !reflect.DeepEqual(execIDs, []int64{2, 4}) {
		t.Errorf("executive = %v, want [2 4]", execIDs)
	}
	if len(parts[report.AudienceGeneral])+len(parts[report.AudienceExecutive]) != len(aggs) {
		t.Error("partition must cover every aggregate exactly once")
	}
}

func TestFilterMaterial(t *testing.T) {
	t.Parallel()

	records := []report.NotificationRecord{
		{DisplayName: "a", MissingHours: 10},
		{DisplayName: "b", MissingHours: 2},
		{DisplayName: "c", MissingHours: 4}, // at the threshold, excluded
		{DisplayName: "d", MissingHours: 4.5},
		{DisplayName: "e", MissingHours: 0},
	}

	got := report.FilterMaterial(records, 4)

	var names []string
	for _, r := range got {
		names = append(names, r.DisplayName)
	}
	if !reflect.DeepEqual(names, []string{"a", "d"}) {
		t.Fatalf("filtered = %v, want [a d]", names)
	}

	// Idempotence: re-filtering at the same threshold changes nothing.
	again := report.FilterMaterial(got, 4)
	if !reflect.DeepEqual(again, got) {
		t.Errorf("re-filter = %v, want %v", again, got)
	}
}

func TestSortByDeficit(t *testing.T) {
	t.Parallel()

	records := []report.NotificationRecord{
		{DisplayName: "first-tie", MissingHours: 6},
		{DisplayName: "big", MissingHours: 12},
		{DisplayName: "second-tie", MissingHours: 6},
		{DisplayName: "small", MissingHours: 5},
	}

	report.SortByDeficit(records)

	for i := 0; i < len(records)-1; i++ {
		if records[i].MissingHours < records[i+1].MissingHours {
			t.Fatalf("not descending at %d: %v", i, records)
		}
	}

	var names []string
	for _, r := range records {
		names = append(names, r.DisplayName)
	}
	// Stable: tied records keep encounter order.
	if !reflect.DeepEqual(names, []string{"big", "first-tie", "second-tie", "small"}) {
		t.Errorf("order = %v", names)
	}
}

func TestComposeMessage(t *testing.T) {
	t.Parallel()

	w := testWindow(t)

	t.Run("empty list selects the all-clear template", func(t *testing.T) {
		t.Parallel()

		msg := report.ComposeMessage(nil, w)
		if !strings.Contains(msg.Text, "Nicely done") {
			t.Errorf("Text = %q, want the congratulatory template", msg.Text)
		}
		if len(msg.Records) != 0 {
			t.Errorf("Records = %v, want none", msg.Records)
		}
	})

	t.Run("reminder names members and window", func(t *testing.T) {
		t.Parallel()

		records := []report.NotificationRecord{
			{ChatID: "U01", DisplayName: "Ana", MissingHours: 10},
			{DisplayName: "Bo", MissingHours: 6},
		}
		msg := report.ComposeMessage(records, w)

		for _, want := range []string{"<@U01>", "Bo", "2024-06-10", "2024-06-14"} {
			if !strings.Contains(msg.Text, want) {
				t.Errorf("Text = %q, missing %q", msg.Text, want)
			}
		}
		if len(msg.Records) != 2 {
			t.Errorf("Records = %d, want 2", len(msg.Records))
		}
	})
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	msg := report.Message{Text: "hello"}

	t.Run("no channels is a no-op", func(t *testing.T) {
		t.Parallel()

		if err := report.Dispatch(context.Background(), msg, nil, discardLogger()); err != nil {
			t.Errorf("Dispatch() = %v, want nil", err)
		}
	})

	t.Run("a failing channel never blocks its siblings", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("webhook 500")
		first := &fakeChannel{name: "first", fail: boom}
		second := &fakeChannel{name: "second"}
		third := &fakeChannel{name: "third"}

		err := report.Dispatch(context.Background(), msg, []report.Channel{first, second, third}, discardLogger())

		if !errors.Is(err, boom) {
			t.Errorf("Dispatch() = %v, want wrapped %v", err, boom)
		}
		for _, ch := range []*fakeChannel{first, second, third} {
			if len(ch.sends) != 1 {
				t.Errorf("channel %s got %d sends, want 1", ch.name, len(ch.sends))
			}
		}
	})
}
