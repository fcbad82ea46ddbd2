package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const acknowledgementAnswer = "You're welcome! 🙂 What else would you like to know about mutual funds?"

type Config struct {
	TopK                int
	NoAnswerSuggestions int
}

// ChatUsecase answers one question at a time. It keeps no per-request state.
type ChatUsecase struct {
	classifier Classifier
	refusal    RefusalPolicy
	retriever  Retriever
	generator  AnswerGenerator
	suggester  Suggester
	stats      StatsProvider
	config     Config
}

// NewUsecase creates a new chat use case
func NewUsecase(
	classifier Classifier,
	refusal RefusalPolicy,
	retriever Retriever,
	generator AnswerGenerator,
	suggester Suggester,
	stats StatsProvider,
	cfg Config,
) *ChatUsecase {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.NoAnswerSuggestions <= 0 {
		cfg.NoAnswerSuggestions = 3
	}
	return &ChatUsecase{
		classifier: classifier,
		refusal:    refusal,
		retriever:  retriever,
		generator:  generator,
		suggester:  suggester,
		stats:      stats,
		config:     cfg,
	}
}

// Ask runs the guardrailed pipeline: acknowledgement shortcut, classification,
// refusal or retrieval plus generation. Only an empty query or a retrieval failure is an error.
func (uc *ChatUsecase) Ask(ctx context.Context, query string) (*entity.AnswerBundle, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, entity.ErrEmptyQuery
	}

	if isAcknowledgement(query) {
		return &entity.AnswerBundle{
			Answer:      acknowledgementAnswer,
			Sources:     []string{},
			Suggestions: []string{},
		}, nil
	}

	class := uc.classifier.Classify(query)
	ctxzap.Info(ctx, "query classified",
		zap.String("type", string(class.Type)),
		zap.Float64("confidence", class.Confidence),
		zap.String("reason", class.Reason),
	)

	if class.IsAdvisory() {
		refusal := uc.refusal.Refuse(query)
		ctxzap.Info(ctx, "advisory query refused", zap.String("kind", string(refusal.Kind)))
		return &entity.AnswerBundle{
			Answer:      refusalAnswer(refusal),
			Sources:     []string{},
			Suggestions: refusal.Suggestions,
		}, nil
	}

	results, err := uc.retriever.Retrieve(ctx, query, uc.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrRetrieval, err)
	}

	answer := uc.generator.Generate(ctx, query, results)
	ctxzap.Info(ctx, "answer generated", zap.String("outcome", string(answer.Outcome)))

	bundle := &entity.AnswerBundle{
		Answer:      answer.Text,
		Sources:     []string{},
		Suggestions: []string{},
	}

	switch answer.Outcome {
	case entity.OutcomeAnswered:
		bundle.Sources = sourceIDs(answer.Used)
	case entity.OutcomeNoEvidence, entity.OutcomeUnknown:
		bundle.Suggestions = uc.suggester.NoAnswerSuggestions(uc.config.NoAnswerSuggestions)
	}

	return bundle, nil
}

// Stats describes the index answering the questions.
func (uc *ChatUsecase) Stats() entity.IndexStats {
	return uc.stats.Stats()
}
