package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/telegram/bot"
	"github.com/futig/fundfacts/internal/telegram/handlers"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot that answers questions through chatUC.
// questionTimeout bounds a single answer; zero means no bound.
func NewBot(
	cfg *config.TelegramConfig,
	chatUC handlers.ChatUsecase,
	questionTimeout time.Duration,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, chatUC, questionTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
