package chat

import (
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/source"
)

func toChatResponse(b *entity.AnswerBundle) entity.ChatResponse {
	return entity.ChatResponse{
		Answer:      b.Answer,
		Sources:     b.Sources,
		SourceNames: source.DisplayNames(b.Sources),
		Suggestions: b.Suggestions,
	}
}
