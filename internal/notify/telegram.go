package notify

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"

	"hoursbot/internal/report"
)

// TelegramChat delivers reminders to a Telegram chat. Telegram has no
// attachment concept comparable to the webhook payload, so records are
// rendered as lines under the fallback text.
type TelegramChat struct {
	name   string
	bot    *tgbot.Bot
	chatID int64
}

// NewTelegramChat builds a Telegram channel on an already-constructed bot;
// several channels may share one bot with different chat IDs.
func NewTelegramChat(name string, bot *tgbot.Bot, chatID int64) *TelegramChat {
	return &TelegramChat{name: name, bot: bot, chatID: chatID}
}

func (t *TelegramChat) Name() string { return t.name }

// Send posts the rendered message to the chat.
func (t *TelegramChat) Send(ctx context.Context, msg report.Message) error {
	_, err := t.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: t.chatID,
		Text:   render(msg),
	})
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}

func render(msg report.Message) string {
	text := msg.Text
	// Chat mentions in the fallback text are Slack-addressed; Telegram
	// readers get the plain display name instead.
	for _, r := range msg.Records {
		if r.ChatID != "" {
			text = strings.ReplaceAll(text, "<@"+r.ChatID+">", r.DisplayName)
		}
	}

	var b strings.Builder
	b.WriteString(text)
	for _, r := range msg.Records {
		b.WriteString("\n\n")
		b.WriteString(r.Summary)
		b.WriteString("\n")
		b.WriteString(r.MissingText())
	}
	return b.String()
}
