package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Audience is one of the two disjoint reminder recipient groups.
type Audience string

const (
	AudienceGeneral   Audience = "general"
	AudienceExecutive Audience = "executive"
)

// Audiences lists the audiences in dispatch order.
var Audiences = []Audience{AudienceGeneral, AudienceExecutive}

// Partition splits the aggregates into the two audiences on the executive
// role tag. Every aggregate lands in exactly one of the two slices.
func Partition(aggs []UserAggregate, execRole string) map[Audience][]UserAggregate {
	out := map[Audience][]UserAggregate{
		AudienceGeneral:   nil,
		AudienceExecutive: nil,
	}
	for _, a := range aggs {
		if a.User.HasRole(execRole) {
			out[AudienceExecutive] = append(out[AudienceExecutive], a)
		} else {
			out[AudienceGeneral] = append(out[AudienceGeneral], a)
		}
	}
	return out
}

// FilterMaterial keeps only records whose deficit exceeds the materiality
// threshold; records at or below it are not actionable reminders. Idempotent
// at a fixed threshold.
func FilterMaterial(records []NotificationRecord, threshold float64) []NotificationRecord {
	out := make([]NotificationRecord, 0, len(records))
	for _, r := range records {
		if r.MissingHours > threshold {
			out = append(out, r)
		}
	}
	return out
}

// SortByDeficit orders records by missing hours, largest first. The sort is
// stable so ties keep encounter order.
func SortByDeficit(records []NotificationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MissingHours > records[j].MissingHours
	})
}

// ComposeMessage builds the single outbound message for an audience from its
// filtered, sorted records. An empty list selects the congratulatory
// template; the message is still dispatched so the channel sees the
// all-clear.
func ComposeMessage(records []NotificationRecord, w Window) Message {
	if len(records) == 0 {
		return Message{
			Text: "*Nicely done, folks!* I've got no reminders for you, because *everyone has already entered their hours.* Keep it up!",
		}
	}

	mentions := make([]string, 0, len(records))
	for _, r := range records {
		mentions = append(mentions, r.Mention())
	}

	return Message{
		Text: fmt.Sprintf("*Almost there!* %s still need to add hours for %s to %s.",
			strings.Join(mentions, " "), w.FromDate(), w.ToDate()),
		Records: records,
	}
}

// Dispatch sends the message to every configured channel for the audience.
// Sends are independent: a failure on one channel never short-circuits the
// remaining ones. All failures are logged and returned joined; an empty
// channel list is a no-op.
func Dispatch(ctx context.Context, msg Message, channels []Channel, log *slog.Logger) error {
	var errs []error
	for _, ch := range channels {
		if err := ch.Send(ctx, msg); err != nil {
			log.ErrorContext(ctx, "Channel dispatch failed", "channel", ch.Name(), "error", err)
			errs = append(errs, fmt.Errorf("channel %s: %w", ch.Name(), err))
			continue
		}
		log.InfoContext(ctx, "Channel dispatch succeeded", "channel", ch.Name(), "records", len(msg.Records))
	}
	return errors.Join(errs...)
}
