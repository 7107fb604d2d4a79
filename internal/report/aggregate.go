package report

// Baseline defines the expected-hours policy for a window: the full-schedule
// baseline and the reduced-schedule adjustment applied to users tagged with
// ReducedRole.
type Baseline struct {
	Hours             float64
	ReducedRole       string
	ReducedMultiplier float64
}

// Expected returns the hours expected of the user for the window: the
// baseline, scaled down for reduced-schedule users.
func (b Baseline) Expected(u TrackedUser) float64 {
	if b.ReducedRole != "" && u.HasRole(b.ReducedRole) {
		return b.Hours * b.ReducedMultiplier
	}
	return b.Hours
}

// SumHours totals the user's logged hours within the window. The tracker
// query already passes the window bounds, but entries outside [From, To]
// are discarded here as well since a remote collaborator cannot guarantee
// the filtering.
func SumHours(entries []TimeEntry, userID int64, w Window) float64 {
	var total float64
	for _, e := range entries {
		if e.UserID != userID {
			continue
		}
		if !w.Contains(e.SpentDate) {
			continue
		}
		total += e.Hours
	}
	return total
}

// NewAggregate completes the per-user aggregate from the matched chat ID,
// the summed logged hours, and the baseline policy. Missing hours never go
// negative. Pure and total.
func NewAggregate(u TrackedUser, chatID string, logged float64, b Baseline) UserAggregate {
	expected := b.Expected(u)
	missing := expected - logged
	if missing < 0 {
		missing = 0
	}
	return UserAggregate{
		User:     u,
		ChatID:   chatID,
		Logged:   logged,
		Expected: expected,
		Missing:  missing,
	}
}
