package report

import (
	"fmt"
	"strconv"
)

// BuildRecord derives the notification record for one user aggregate. Every
// aggregate produces a record, matched or not; filtering is the router's
// job.
func BuildRecord(agg UserAggregate, w Window) NotificationRecord {
	return NotificationRecord{
		ChatID:      agg.ChatID,
		DisplayName: agg.User.DisplayName(),
		Summary: fmt.Sprintf("Almost there! So far, %s has entered %s hours for the week of %s to %s.",
			agg.User.DisplayName(), formatHours(agg.Logged), w.FromDate(), w.ToDate()),
		MissingHours: agg.Missing,
	}
}

// MissingText is the short-form deficit line channels render next to the
// summary.
func (r NotificationRecord) MissingText() string {
	return fmt.Sprintf("Missing %s hours", formatHours(r.MissingHours))
}

// Mention renders the record's addressable form: a chat mention when the
// identity was matched, the plain display name otherwise.
func (r NotificationRecord) Mention() string {
	if r.ChatID != "" {
		return "<@" + r.ChatID + ">"
	}
	return r.DisplayName
}

// formatHours renders hours without trailing zeros (8, 7.5, 0.25).
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
