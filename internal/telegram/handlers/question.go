package handlers

import (
	"context"
	"time"

	"github.com/futig/fundfacts/internal/telegram/keyboard"
	"github.com/futig/fundfacts/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QuestionHandler answers free-text questions through the chat pipeline
type QuestionHandler struct {
	api      BotAPI
	chatUC   ChatUsecase
	sender   *MessageSender
	keyboard *keyboard.Builder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewQuestionHandler creates a question handler. A zero timeout leaves the
// deadline to the caller's context.
func NewQuestionHandler(
	api BotAPI,
	chatUC ChatUsecase,
	kb *keyboard.Builder,
	timeout time.Duration,
	logger *zap.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		api:      api,
		chatUC:   chatUC,
		sender:   NewMessageSender(api, logger),
		keyboard: kb,
		timeout:  timeout,
		logger:   logger,
	}
}

// Handle answers msg.Text and replies with the rendered answer
func (h *QuestionHandler) Handle(ctx context.Context, msg *Message) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	typing := NewTypingNotifier(h.api, msg.ChatID, h.logger)
	typing.Start(ctx)
	bundle, err := h.chatUC.Ask(ctx, msg.Text)
	typing.Stop()

	if err != nil {
		h.handleError(ctx, msg.ChatID, err)
		return nil
	}

	ctxzap.Info(ctx, "question answered",
		zap.Int64("user_id", msg.UserID),
		zap.Int("sources", len(bundle.Sources)),
		zap.Int("suggestions", len(bundle.Suggestions)),
	)

	var markup any = h.keyboard.RemoveKeyboard()
	if kb := h.keyboard.SuggestionsKeyboard(bundle.Suggestions); kb != nil {
		markup = kb
	}

	return h.sender.Send(msg.ChatID, render.Answer(bundle), markup)
}
