package chat

import (
	"context"

	"github.com/futig/fundfacts/internal/entity"
)

type Classifier interface {
	Classify(query string) entity.QueryClassification
}

type RefusalPolicy interface {
	Refuse(query string) entity.RefusalResult
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]entity.RetrievalResult, error)
}

type AnswerGenerator interface {
	Generate(ctx context.Context, query string, results []entity.RetrievalResult) entity.GeneratedAnswer
}

type Suggester interface {
	NoAnswerSuggestions(count int) []string
}

type StatsProvider interface {
	Stats() entity.IndexStats
}
