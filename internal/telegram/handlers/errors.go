package handlers

import (
	"context"
	"errors"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error) *HandlerError {
	switch {
	case err == nil:
		return &HandlerError{
			UserMessage: render.ErrGeneric,
			LogMessage:  "unknown error",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, entity.ErrEmptyQuery):
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrEmptyQuery,
			LogMessage:  "empty question",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrTimeout,
			LogMessage:  "question timed out",
			Severity:    SeverityError,
		}
	case errors.Is(err, entity.ErrRetrieval):
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrRetrieval,
			LogMessage:  "retrieval failed",
			Severity:    SeverityError,
		}
	}

	return &HandlerError{
		Err:         err,
		UserMessage: render.ClassifyError(err),
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}
}

// handleError logs the error with its severity and sends a user-friendly message
func (h *QuestionHandler) handleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	switch handlerErr.Severity {
	case SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	default:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	_ = h.sender.Send(chatID, handlerErr.UserMessage, nil)
}
