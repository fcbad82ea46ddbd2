package handlers

import (
	"context"

	"github.com/futig/fundfacts/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatUsecase answers a single user question
type ChatUsecase interface {
	Ask(ctx context.Context, query string) (*entity.AnswerBundle, error)
}

// BotAPI is the subset of the Telegram client the handlers use.
// *tgbotapi.BotAPI satisfies it.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Message represents a normalized Telegram message
type Message struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
}
