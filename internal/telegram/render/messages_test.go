package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/futig/fundfacts/internal/entity"
	"gotest.tools/v3/assert"
)

func TestAnswer(t *testing.T) {
	got := Answer(&entity.AnswerBundle{
		Answer: "The exit load is 1% if redeemed within 1 year.",
		Sources: []string{
			"https://files.hdfcfund.com/s3fs-public/KIM/hdfc-mid-cap-opportunities-fund-kim.pdf",
			"service_faqs.json",
		},
	})

	want := "The exit load is 1% if redeemed within 1 year.\n\n" +
		"📄 Sources:\n" +
		"1. HDFC Mid Cap Fund - KIM\n" +
		"   https://files.hdfcfund.com/s3fs-public/KIM/hdfc-mid-cap-opportunities-fund-kim.pdf\n" +
		"2. service_faqs.json"
	assert.Equal(t, got, want)
}

func TestAnswerWithSuggestions(t *testing.T) {
	got := Answer(&entity.AnswerBundle{
		Answer:      "I don't know based on the provided sources.",
		Suggestions: []string{"What is the lock-in period for ELSS funds?", "How do I download my capital gains statement?"},
	})

	assert.Assert(t, !strings.Contains(got, "Sources:"))
	assert.Assert(t, strings.HasSuffix(got, "💡 You could ask:\n"+
		"• What is the lock-in period for ELSS funds?\n"+
		"• How do I download my capital gains statement?"))
}

func TestAnswerNil(t *testing.T) {
	assert.Equal(t, Answer(nil), ErrGeneric)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ErrGeneric},
		{name: "empty query", err: entity.ErrEmptyQuery, want: ErrEmptyQuery},
		{name: "deadline", err: fmt.Errorf("ask: %w", context.DeadlineExceeded), want: ErrTimeout},
		{name: "retrieval", err: errors.Join(entity.ErrRetrieval, entity.ErrEmbedding), want: ErrRetrieval},
		{name: "network timeout", err: timeoutErr{}, want: ErrTimeout},
		{name: "other", err: errors.New("boom"), want: ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ClassifyError(tt.err), tt.want)
		})
	}
}
