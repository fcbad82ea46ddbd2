package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/telegram/handlers"
	"github.com/futig/fundfacts/internal/telegram/keyboard"
	"github.com/futig/fundfacts/internal/telegram/middleware"
	"github.com/futig/fundfacts/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	rateLimitCleanupInterval = 10 * time.Minute
	rateLimitMaxIdle         = time.Hour
)

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	questions   *handlers.QuestionHandler
	sender      *handlers.MessageSender
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	chatUC handlers.ChatUsecase,
	questionTimeout time.Duration,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:       api,
		cfg:       cfg,
		questions: handlers.NewQuestionHandler(api, chatUC, keyboard.NewBuilder(3), questionTimeout, logger),
		sender:    handlers.NewMessageSender(api, logger),
		logger:    logger,
		stopChan:  make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)

	go b.rateLimitMW.RunCleanup(rateLimitCleanupInterval, rateLimitMaxIdle, b.stopChan)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates. Handlers run detached from ctx
// cancellation so answers in flight finish; Stop bounds how long that takes.
func (b *Bot) processUpdates(ctx context.Context) {
	handlerCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(handlerCtx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware runs rate limiting, then logging, then recovery around handleUpdate
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}
	b.handleMessage(ctx, update.Message)
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		_ = b.sender.Send(message.Chat.ID, render.MsgTextOnly, nil)
		return
	}

	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}
	if message.From != nil {
		msg.UserID = message.From.ID
	}

	if err := b.questions.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "question handler error",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	ctxzap.Info(ctx, "command received", zap.String("command", command))

	var text string
	switch command {
	case "start":
		text = render.MsgWelcome
	case "help":
		text = render.MsgHelp
	default:
		text = render.MsgUnknownCommand
	}

	if err := b.sender.Send(message.Chat.ID, text, nil); err != nil {
		ctxzap.Error(ctx, "failed to send command reply",
			zap.Error(err),
			zap.String("command", command),
		)
	}
}
