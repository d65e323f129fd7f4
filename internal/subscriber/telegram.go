package subscriber

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nguyentantai21042004/video-context/internal/notifier"
)

// excerptRunes bounds the transcript preview; Telegram caps messages at 4096 characters.
const excerptRunes = 600

// TelegramNotifier posts a short message per transcript and per run summary.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func ConnectTelegram(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) Notify(ctx context.Context, event notifier.Event) error {
	text := formatTelegram(event)
	if text == "" {
		return nil
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}
	return nil
}

func formatTelegram(event notifier.Event) string {
	switch {
	case event.Kind == notifier.KindVideoTranscription && event.Video != nil:
		v := event.Video
		return fmt.Sprintf("🎬 Transcribed %s\n\n%s\n\nSaved to %s", v.VideoFilename, excerpt(v.Transcript, excerptRunes), v.OutputPath)
	case event.Kind == notifier.KindTranscriptionSummary && event.Summary != nil:
		s := event.Summary
		return fmt.Sprintf("✅ Transcription complete\nProcessed: %d\nSkipped: %d\nFailed: %d\nTotal: %d",
			s.ProcessedCount, s.SkippedCount, s.FailedCount, s.TotalFiles)
	default:
		return ""
	}
}

func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
