// Package report implements the weekly hours-compliance pipeline: reporting
// window resolution, identity matching between the time tracker and the chat
// directory, per-user hours aggregation and deficit calculation, notification
// record building, and audience routing to the configured delivery channels.
package report

import (
	"context"
	"slices"
)

// TrackedUser is a person in the time-tracking backend. Read-only within the
// pipeline.
type TrackedUser struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	Roles     []string
}

// HasRole reports whether the user carries the given role tag. Role tags are
// compared exactly as the backend returns them.
func (u TrackedUser) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// DisplayName returns the user's first name, falling back to the email
// address when the backend has no name on file.
func (u TrackedUser) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// ChatIdentity is a person's account in the chat backend, matched to a
// TrackedUser by email.
type ChatIdentity struct {
	ID    string
	Email string
}

// TimeEntry is a single logged block of hours from the time tracker. Dates
// use the wire format (2006-01-02); many entries exist per user.
type TimeEntry struct {
	UserID    int64
	Hours     float64
	SpentDate string
}

// UserAggregate is the per-user result of one run: the tracked user, the
// matched chat identity (empty ChatID when unmatched), and the hours math
// for the window. Rebuilt from scratch every run, never stored.
type UserAggregate struct {
	User     TrackedUser
	ChatID   string
	Logged   float64
	Expected float64
	Missing  float64
}

// NotificationRecord is the structured per-user payload attached to an
// outbound reminder. Derived 1:1 from a UserAggregate.
type NotificationRecord struct {
	// ChatID is empty when the user has no chat directory match; channels
	// must render the display name instead of a mention in that case.
	ChatID       string
	DisplayName  string
	Summary      string
	MissingHours float64
}

// Message is one composed outbound reminder for a single audience: the
// plain-text fallback plus the ordered records as structured payload.
type Message struct {
	Text    string
	Records []NotificationRecord
}

// Channel is a single configured delivery destination. Implementations live
// in internal/notify; the router only fans out to them.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}
