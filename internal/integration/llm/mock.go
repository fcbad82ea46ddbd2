package llm

import (
	"context"
	"strings"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
)

// MockProvider answers with the first sentence of the first context chunk.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ctxzap.Info(ctx, "[MOCK] generating completion")

	_, content, ok := strings.Cut(req.User, "Content: ")
	if !ok {
		return "I don't know based on the provided sources.", nil
	}
	content, _, _ = strings.Cut(content, "\n")
	if end := strings.Index(content, ". "); end >= 0 {
		content = content[:end+1]
	}
	return strings.TrimSpace(content), nil
}
