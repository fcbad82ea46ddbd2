package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/integration/llm"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Config struct {
	// MinScore is the lowest top-result score that still reaches the model.
	MinScore        float64
	ContextMaxChars int
	Temperature     float64
	MaxTokens       int
	Timeout         time.Duration
}

// Generator turns retrieved evidence into a grounded answer. It never returns an error:
// every failure becomes a user-facing answer tagged with its outcome.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New accepts a nil provider; answers then carry the missing-configuration placeholder.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

func (g *Generator) Generate(ctx context.Context, query string, results []entity.RetrievalResult) entity.GeneratedAnswer {
	if len(results) == 0 || results[0].Score < g.config.MinScore {
		top := 0.0
		if len(results) > 0 {
			top = results[0].Score
		}
		ctxzap.Info(ctx, "evidence below threshold, skipping model call",
			zap.Int("results", len(results)),
			zap.Float64("top_score", top),
			zap.Float64("min_score", g.config.MinScore),
		)
		return entity.GeneratedAnswer{Text: noEvidenceAnswer, Outcome: entity.OutcomeNoEvidence}
	}

	if g.provider == nil {
		ctxzap.Warn(ctx, "no language model configured, returning placeholder")
		return entity.GeneratedAnswer{Text: missingKeyAnswer, Outcome: entity.OutcomeMissingConfig}
	}

	contextText, used := AssembleContext(results, g.config.ContextMaxChars)

	callCtx := ctx
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	answer, err := g.provider.Complete(callCtx, entity.CompletionRequest{
		System:      systemPrompt,
		User:        fmt.Sprintf("CONTEXT:\n%s\n\nUSER QUESTION: %s", contextText, query),
		Temperature: g.config.Temperature,
		MaxTokens:   g.config.MaxTokens,
	})
	if err != nil {
		ctxzap.Error(ctx, "answer generation failed", zap.String("provider", g.provider.Name()), zap.Error(err))
		return entity.GeneratedAnswer{
			Text:    fmt.Sprintf(failureAnswer, err, err),
			Outcome: entity.OutcomeFailed,
		}
	}

	answer = strings.TrimSpace(answer)
	if strings.Contains(answer, UnknownPhrase) {
		return entity.GeneratedAnswer{Text: answer, Outcome: entity.OutcomeUnknown}
	}

	return entity.GeneratedAnswer{Text: answer, Outcome: entity.OutcomeAnswered, Used: used}
}

// AssembleContext labels each chunk with its source file and joins them with blank lines.
// Whole chunks are kept while they fit in maxChars; if even the first does not fit it is cut.
// A non-positive maxChars disables the bound.
func AssembleContext(results []entity.RetrievalResult, maxChars int) (string, []entity.RetrievalResult) {
	var sb strings.Builder
	used := make([]entity.RetrievalResult, 0, len(results))

	for _, r := range results {
		part := fmt.Sprintf("Source: %s\nContent: %s", sourceLabel(r.Metadata), r.Text)
		sep := 0
		if sb.Len() > 0 {
			sep = 2
		}

		if maxChars > 0 && sb.Len()+sep+len(part) > maxChars {
			if len(used) == 0 {
				sb.WriteString(truncate(part, maxChars))
				used = append(used, r)
			}
			break
		}

		if sep > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(part)
		used = append(used, r)
	}

	return sb.String(), used
}

func sourceLabel(m entity.ChunkMetadata) string {
	if m.SourceFile != "" {
		return m.SourceFile
	}
	return "Unknown Source"
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
