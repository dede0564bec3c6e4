// Package notify sends the run summary to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/matchsync/internal/pkg/performance"
)

// Notifier receives the summary of a finished run.
type Notifier interface {
	NotifySummary(ctx context.Context, s performance.RunSummary) error
}

// Nop discards summaries. Used when Telegram is not configured.
type Nop struct{}

func (Nop) NotifySummary(context.Context, performance.RunSummary) error { return nil }

// sender is the part of tgbotapi.BotAPI we use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot    sender
	chatID int64
}

// NewTelegramNotifier connects to the Bot API and checks the token with getMe.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	slog.Info("Telegram notifier initialized", "chat_id", chatID, "bot", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) NotifySummary(ctx context.Context, s performance.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, FormatSummary(s))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram summary: %w", err)
	}
	slog.Info("Telegram summary sent", "chat_id", n.chatID)
	return nil
}

// FormatSummary renders the summary as Telegram Markdown.
func FormatSummary(s performance.RunSummary) string {
	var b strings.Builder
	b.WriteString("*Fixture sync finished*\n\n")
	for _, src := range s.Sources {
		fmt.Fprintf(&b, "• `%s` (%s): %d records", src.Source, src.Role, src.Records)
		if src.Outcome != performance.OutcomeOK {
			fmt.Fprintf(&b, " _%s_", strings.ReplaceAll(src.Outcome, "_", " "))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nMerged: %d (matched %d)\n", s.Merged, s.Matched)
	fmt.Fprintf(&b, "Saved: %d, failed: %d\n", s.Saved, s.Failed)
	fmt.Fprintf(&b, "Elapsed: %s\n", s.TotalDuration.Round(time.Second))
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(&b, "\n_Started: %s_", s.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	return b.String()
}
