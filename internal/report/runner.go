package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TimeTracker is the time-tracking backend contract consumed by a run.
type TimeTracker interface {
	ListUsers(ctx context.Context) ([]TrackedUser, error)
	ListTimeEntries(ctx context.Context, from, to time.Time) ([]TimeEntry, error)
}

// MemberDirectory is the chat directory backend contract consumed by a run.
type MemberDirectory interface {
	ListMembers(ctx context.Context) ([]ChatIdentity, error)
}

// AudienceResult summarizes one audience pipeline within an Outcome.
type AudienceResult struct {
	Reminded int   // records that survived the materiality filter
	Channels int   // channels the message was dispatched to
	SendErr  error // joined delivery failures, nil when all sends succeeded
}

// Outcome is the structured result of one run. Delivery failures live here
// rather than in Run's error return: they are non-fatal by policy, and the
// invocation boundaries decide how to ack.
type Outcome struct {
	RunID     string
	Window    Window
	Users     int
	Unmatched int
	Audiences map[Audience]AudienceResult
}

// DeliveryFailed reports whether any channel send failed.
func (o *Outcome) DeliveryFailed() bool {
	for _, res := range o.Audiences {
		if res.SendErr != nil {
			return true
		}
	}
	return false
}

// Settings are the compliance-policy knobs for a Runner.
type Settings struct {
	Baseline         Baseline
	MissingThreshold float64
	ExecutiveRole    string
}

// Runner executes the compliance pipeline against injected collaborators.
// It holds no state between runs; every Run recomputes everything from
// current backend data.
type Runner struct {
	tracker   TimeTracker
	directory MemberDirectory
	channels  map[Audience][]Channel
	settings  Settings
	now       func() time.Time
	log       *slog.Logger
}

// NewRunner wires a Runner from its collaborators. channels may be empty or
// missing for either audience; that audience is then simply not notified.
func NewRunner(tracker TimeTracker, directory MemberDirectory, channels map[Audience][]Channel, settings Settings, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		tracker:   tracker,
		directory: directory,
		channels:  channels,
		settings:  settings,
		now:       time.Now,
		log:       log.With("component", "report_runner"),
	}
}

// WithClock overrides the clock. Tests pin the run date with it.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run executes one full compliance cycle: resolve the window, fetch the
// three backend datasets concurrently, build per-user aggregates, then
// filter, sort, compose, and dispatch per audience. A window or fetch
// failure returns an error; delivery failures are recorded in the Outcome
// and logged only.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	runID := uuid.NewString()
	log := r.log.With("run_id", runID)

	window, err := ResolveWindow(r.now())
	if err != nil {
		return nil, fmt.Errorf("resolving reporting window: %w", err)
	}
	log.InfoContext(ctx, "Starting compliance run",
		"from", window.FromDate(), "to", window.ToDate(), "weekday", window.Weekday)

	var (
		members []ChatIdentity
		users   []TrackedUser
		entries []TimeEntry
	)

	// The three reads are independent and read-only; issue them together.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if members, err = r.directory.ListMembers(gCtx); err != nil {
			return fmt.Errorf("listing chat members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if users, err = r.tracker.ListUsers(gCtx); err != nil {
			return fmt.Errorf("listing tracked users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if entries, err = r.tracker.ListTimeEntries(gCtx, window.From, window.To); err != nil {
			return fmt.Errorf("listing time entries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "Backend data fetched",
		"chat_members", len(members), "tracked_users", len(users), "time_entries", len(entries))

	aggs, unmatched := r.buildAggregates(ctx, log, window, users, entries, members)

	outcome := &Outcome{
		RunID:     runID,
		Window:    window,
		Users:     len(aggs),
		Unmatched: unmatched,
		Audiences: make(map[Audience]AudienceResult, len(Audiences)),
	}

	// The two audience pipelines are independent; run them together and
	// wait for every send to finish before returning. Delivery failures
	// stay inside the per-audience results, so one pipeline never cancels
	// the other.
	partitioned := Partition(aggs, r.settings.ExecutiveRole)

	var (
		mu sync.Mutex
		ag errgroup.Group
	)
	for _, audience := range Audiences {
		ag.Go(func() error {
			res := r.notifyAudience(ctx, log, audience, partitioned[audience], window)
			mu.Lock()
			outcome.Audiences[audience] = res
			mu.Unlock()
			return nil
		})
	}
	_ = ag.Wait()

	log.InfoContext(ctx, "Compliance run finished",
		"users", outcome.Users,
		"unmatched", outcome.Unmatched,
		"delivery_failed", outcome.DeliveryFailed())
	return outcome, nil
}

// buildAggregates joins each active tracked user to its chat identity and
// hours total. Inactive users are skipped entirely; unmatched users are kept
// and counted for the diagnostic log.
func (r *Runner) buildAggregates(ctx context.Context, log *slog.Logger, w Window, users []TrackedUser, entries []TimeEntry, members []ChatIdentity) ([]UserAggregate, int) {
	idx := NewDirectoryIndex(members)

	aggs := make([]UserAggregate, 0, len(users))
	unmatched := 0
	for _, u := range users {
		if !u.IsActive {
			continue
		}

		chatID := ""
		if identity, ok := idx.Lookup(u.Email); ok {
			chatID = identity.ID
		} else {
			unmatched++
			log.WarnContext(ctx, "Tracked user has no chat directory match",
				"user_id", u.ID, "email", u.Email)
		}

		logged := SumHours(entries, u.ID, w)
		aggs = append(aggs, NewAggregate(u, chatID, logged, r.settings.Baseline))
	}
	return aggs, unmatched
}

// notifyAudience runs the filter/sort/compose/dispatch tail of the pipeline
// for one audience over its partition of the aggregates.
func (r *Runner) notifyAudience(ctx context.Context, log *slog.Logger, audience Audience, aggs []UserAggregate, w Window) AudienceResult {
	records := make([]NotificationRecord, 0, len(aggs))
	for _, agg := range aggs {
		records = append(records, BuildRecord(agg, w))
	}

	records = FilterMaterial(records, r.settings.MissingThreshold)
	SortByDeficit(records)

	msg := ComposeMessage(records, w)
	channels := r.channels[audience]
	log.InfoContext(ctx, "Dispatching audience reminder",
		"audience", audience, "reminded", len(records), "channels", len(channels))

	return AudienceResult{
		Reminded: len(records),
		Channels: len(channels),
		SendErr:  Dispatch(ctx, msg, channels, log.With("audience", audience)),
	}
}
