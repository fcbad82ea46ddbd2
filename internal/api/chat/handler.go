package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/pkg/logger"
	"github.com/futig/fundfacts/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the request body; questions are short.
const maxBodyBytes = 64 << 10

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Chat handles POST /chat - Answer one question
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		response.Error(ctx, w, http.StatusBadRequest, "message is required", entity.ErrMissingField)
		return
	}

	ctxzap.Info(ctx, "answering question", zap.Int("message_len", len(req.Message)))

	bundle, err := h.usecase.Ask(ctx, req.Message)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toChatResponse(bundle))
}

// IndexStats handles GET /index/stats - Describe the loaded index
func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.usecase.Stats())
}

// Health reports liveness and the number of indexed chunks.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.HealthResponse{
		Status: "healthy",
		Chunks: h.usecase.Stats().Chunks,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrEmptyQuery), errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidParameter):
		response.Error(ctx, w, http.StatusBadRequest, "message is required", err)
	case errors.Is(err, context.DeadlineExceeded):
		response.Error(ctx, w, http.StatusGatewayTimeout, "request timed out", err)
	case errors.Is(err, entity.ErrRetrieval):
		response.Error(ctx, w, http.StatusInternalServerError, "failed to retrieve sources", err)
	default:
		response.Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
