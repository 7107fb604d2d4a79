// Package slackdir adapts the Slack workspace member list to the chat
// directory contract the reminder pipeline matches identities against.
package slackdir

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"hoursbot/internal/report"
)

// Directory lists chat identities from a Slack workspace.
type Directory struct {
	api *slack.Client
	log *slog.Logger
}

// New builds a Directory over the Slack Web API with the given bot token.
func New(token string, log *slog.Logger) *Directory {
	if log == nil {
		log = slog.Default()
	}
	return &Directory{
		api: slack.New(token),
		log: log.With("component", "slack_directory"),
	}
}

// ListMembers returns the workspace members usable for identity matching.
// Deleted accounts, bots, and profiles without an email are skipped; they
// can never match a tracked user.
func (d *Directory) ListMembers(ctx context.Context) ([]report.ChatIdentity, error) {
	users, err := d.api.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workspace users: %w", err)
	}

	members := make([]report.ChatIdentity, 0, len(users))
	for _, u := range users {
		if u.Deleted || u.IsBot || u.Profile.Email == "" {
			continue
		}
		members = append(members, report.ChatIdentity{
			ID:    u.ID,
			Email: u.Profile.Email,
		})
	}

	d.log.DebugContext(ctx, "Fetched chat directory",
		"workspace_users", len(users), "matchable", len(members))
	return members, nil
}
