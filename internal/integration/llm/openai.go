package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/integration/common"
	"github.com/futig/fundfacts/internal/pkg/retry"
	pkghttp "github.com/futig/fundfacts/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client openai.Client
	config config.LLMConfig
	logger *zap.Logger
}

func NewOpenAIProvider(cfg config.LLMConfig, logger *zap.Logger) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(common.NewHTTPClient(cfg.HTTPClientConfig, "")),
		option.WithMaxRetries(0),
	}
	if cfg.Url != "" {
		opts = append(opts, option.WithBaseURL(cfg.Url))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		config: cfg,
		logger: logger,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	ctxzap.Info(ctx, "requesting completion", zap.String("provider", p.Name()), zap.String("model", p.config.Model))

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Model:       openai.ChatModel(p.config.Model),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := retry.Do(ctx, p.config.Retry, func() (*openai.ChatCompletion, error) {
		r, err := p.client.Chat.Completions.New(ctx, params)
		return r, fromOpenAIError(err)
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", entity.ErrEmptyCompletion
	}

	ctxzap.Info(ctx, "completion received", zap.Int64("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

func fromOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &pkghttp.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return err
}
