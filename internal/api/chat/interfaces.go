package chat

import (
	"context"

	"github.com/futig/fundfacts/internal/entity"
)

type ChatUsecase interface {
	Ask(ctx context.Context, query string) (*entity.AnswerBundle, error)
	Stats() entity.IndexStats
}
