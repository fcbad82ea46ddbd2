package generator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/futig/fundfacts/internal/entity"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type stubProvider struct {
	answer   string
	err      error
	requests []entity.CompletionRequest
	deadline bool
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	s.requests = append(s.requests, req)
	_, s.deadline = ctx.Deadline()
	return s.answer, s.err
}

var results = []entity.RetrievalResult{
	{
		ID:       "1",
		Text:     "The expense ratio of the direct plan is 0.74% p.a.",
		Metadata: entity.ChunkMetadata{SourceFile: "hdfc_midcap.json", SourceURL: "https://www.hdfcfund.com/midcap"},
		Score:    0.82,
	},
	{
		ID:       "2",
		Text:     "Exit load is 1% if redeemed within 1 year.",
		Metadata: entity.ChunkMetadata{SourceURL: "https://www.hdfcfund.com/midcap"},
		Score:    0.61,
	},
}

var testConfig = Config{MinScore: 0.5, MaxTokens: 300, Timeout: time.Second}

func TestLowEvidenceSkipsModel(t *testing.T) {
	tests := []struct {
		name    string
		results []entity.RetrievalResult
	}{
		{name: "no results", results: nil},
		{name: "top score below threshold", results: []entity.RetrievalResult{{Text: "nav", Score: 0.49}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{answer: "unused"}
			got := New(p, testConfig).Generate(context.Background(), "What is the NAV?", tt.results)

			assert.Equal(t, got.Outcome, entity.OutcomeNoEvidence)
			assert.Assert(t, strings.HasPrefix(got.Text, "I don't know based on the provided sources"))
			assert.Assert(t, is.Len(p.requests, 0))
		})
	}
}

func TestLowEvidenceBeatsMissingProvider(t *testing.T) {
	got := New(nil, testConfig).Generate(context.Background(), "q", nil)
	assert.Equal(t, got.Outcome, entity.OutcomeNoEvidence)
}

func TestMissingProviderPlaceholder(t *testing.T) {
	got := New(nil, testConfig).Generate(context.Background(), "What is the expense ratio?", results)

	assert.Equal(t, got.Outcome, entity.OutcomeMissingConfig)
	assert.Assert(t, strings.Contains(got.Text, "MISSING_API_KEY"))
}

func TestGenerateAnswer(t *testing.T) {
	p := &stubProvider{answer: "  The expense ratio is 0.74% p.a. 🙂\n"}
	got := New(p, testConfig).Generate(context.Background(), "What is the expense ratio?", results)

	assert.Equal(t, got.Outcome, entity.OutcomeAnswered)
	assert.Equal(t, got.Text, "The expense ratio is 0.74% p.a. 🙂")
	assert.DeepEqual(t, got.Used, results)

	assert.Assert(t, is.Len(p.requests, 1))
	req := p.requests[0]
	assert.Equal(t, req.System, systemPrompt)
	assert.Equal(t, req.Temperature, 0.0)
	assert.Equal(t, req.MaxTokens, 300)
	assert.Equal(t, req.User, "CONTEXT:\n"+
		"Source: hdfc_midcap.json\nContent: The expense ratio of the direct plan is 0.74% p.a.\n\n"+
		"Source: Unknown Source\nContent: Exit load is 1% if redeemed within 1 year.\n\n"+
		"USER QUESTION: What is the expense ratio?")
	assert.Assert(t, p.deadline)
}

func TestModelUnknown(t *testing.T) {
	p := &stubProvider{answer: "I don't know based on the provided sources 🙂"}
	got := New(p, testConfig).Generate(context.Background(), "Who manages the fund?", results)

	assert.Equal(t, got.Outcome, entity.OutcomeUnknown)
	assert.Assert(t, is.Len(got.Used, 0))
}

func TestProviderFailureBecomesApology(t *testing.T) {
	p := &stubProvider{err: context.DeadlineExceeded}
	got := New(p, testConfig).Generate(context.Background(), "What is the exit load?", results)

	assert.Equal(t, got.Outcome, entity.OutcomeFailed)
	assert.Assert(t, strings.HasPrefix(got.Text, "Sorry, I encountered an error while generating the response. Details: "))
	assert.Assert(t, strings.Contains(got.Text, "deadline exceeded"))
}

func TestAssembleContextBound(t *testing.T) {
	full, used := AssembleContext(results, 0)
	assert.Assert(t, is.Len(used, 2))

	first := "Source: hdfc_midcap.json\nContent: The expense ratio of the direct plan is 0.74% p.a."
	bounded, used := AssembleContext(results, len(first)+5)
	assert.Equal(t, bounded, first)
	assert.Assert(t, is.Len(used, 1))
	assert.Assert(t, len(bounded) < len(full))

	cut, used := AssembleContext(results, 20)
	assert.Equal(t, cut, first[:20])
	assert.Assert(t, is.Len(used, 1))
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, truncate("₹500 minimum", 2), "")
	assert.Equal(t, truncate("₹500 minimum", 4), "₹5")
}
