package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// typingInterval stays under the five seconds a Telegram chat action lasts.
const typingInterval = 4 * time.Second

// TypingNotifier sends periodic "typing" actions while an answer is generated
type TypingNotifier struct {
	bot     BotAPI
	chatID  int64
	done    chan struct{}
	logger  *zap.Logger
	once    sync.Once
	started bool
}

// NewTypingNotifier creates a new typing indicator
func NewTypingNotifier(bot BotAPI, chatID int64, logger *zap.Logger) *TypingNotifier {
	return &TypingNotifier{
		bot:    bot,
		chatID: chatID,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start sends one typing action right away and then repeats it until Stop or ctx ends
func (t *TypingNotifier) Start(ctx context.Context) {
	if t.started {
		return
	}
	t.started = true

	t.send()

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.send()
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops sending typing indicators
func (t *TypingNotifier) Stop() {
	if !t.started {
		return
	}
	t.once.Do(func() { close(t.done) })
}

func (t *TypingNotifier) send() {
	action := tgbotapi.NewChatAction(t.chatID, tgbotapi.ChatTyping)
	if _, err := t.bot.Request(action); err != nil {
		t.logger.Warn("failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
