// Package notify implements the delivery channels reminders fan out to. Each
// channel renders the composed message for its backend; failure semantics
// (attempt all, never short-circuit) live in the router, not here.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"hoursbot/internal/report"
)

// SlackWebhook delivers reminders to a Slack incoming webhook. The records
// travel as attachments so the channel shows one block per member.
type SlackWebhook struct {
	name string
	url  string
}

// NewSlackWebhook builds a webhook channel. name identifies the channel in
// logs and dispatch errors.
func NewSlackWebhook(name, url string) *SlackWebhook {
	return &SlackWebhook{name: name, url: url}
}

func (s *SlackWebhook) Name() string { return s.name }

// Send posts the message to the webhook.
func (s *SlackWebhook) Send(ctx context.Context, msg report.Message) error {
	payload := &slack.WebhookMessage{
		Text:        msg.Text,
		Attachments: attachments(msg.Records),
	}
	if err := slack.PostWebhookContext(ctx, s.url, payload); err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	return nil
}

func attachments(records []report.NotificationRecord) []slack.Attachment {
	out := make([]slack.Attachment, 0, len(records))
	for _, r := range records {
		out = append(out, slack.Attachment{
			Color:    severityColor(r.MissingHours),
			Title:    r.Mention(),
			Text:     r.Summary,
			Fallback: r.Summary,
			Fields: []slack.AttachmentField{
				{Value: r.MissingText(), Short: true},
			},
		})
	}
	return out
}

// A full missing day or more gets the louder color.
func severityColor(missing float64) string {
	if missing >= 8 {
		return "danger"
	}
	return "warning"
}
