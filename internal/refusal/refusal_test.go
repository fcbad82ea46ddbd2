package refusal

import (
	"strings"
	"testing"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/suggestion"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestKind(t *testing.T) {
	tests := []struct {
		query string
		want  entity.RefusalKind
	}{
		{query: "Should I buy HDFC Midcap Fund?", want: entity.RefusalInvestmentAdvice},
		{query: "Which fund is better?", want: entity.RefusalComparison},
		{query: "HDFC Midcap vs HDFC Small Cap", want: entity.RefusalComparison},
		{query: "What's a good portfolio allocation?", want: entity.RefusalPortfolioAdvice},
		{query: "Is this a good time to invest?", want: entity.RefusalTiming},
		{query: "Will this fund outperform?", want: entity.RefusalDefault},
		{query: "Which fund should I buy, and is now the right time?", want: entity.RefusalComparison},
		{query: "Is it the right time to rebalance my portfolio?", want: entity.RefusalPortfolioAdvice},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, Kind(tt.query), tt.want)
		})
	}
}

func TestRefuse(t *testing.T) {
	sampler := suggestion.NewSampler(nil, nil)
	p := New(nil, sampler, 0)

	got := p.Refuse("Is this a good time to invest?")
	assert.Equal(t, got.Kind, entity.RefusalTiming)
	assert.Assert(t, strings.HasPrefix(got.Message, "I can't advise on market timing"))
	assert.Equal(t, got.EducationalLink, "https://www.amfiindia.com/investor-corner/knowledge-center/understanding-risk-and-return")

	assert.Assert(t, is.Len(got.Suggestions, DefaultSuggestionCount))
	bank := sampler.Bank(suggestion.AdvisoryRefusal)
	for _, s := range got.Suggestions {
		assert.Assert(t, is.Contains(bank, s))
	}
}

func TestRefuseWithPolicyTemplate(t *testing.T) {
	p := New(&config.RefusalPolicy{
		Templates: map[string]config.RefusalTemplate{
			"comparison": {Message: "Comparisons are out of scope.", EducationalLink: "https://www.sebi.gov.in"},
		},
	}, suggestion.NewSampler(nil, nil), 3)

	got := p.Refuse("Which is the best fund?")
	assert.Equal(t, got.Message, "Comparisons are out of scope.")
	assert.Equal(t, got.EducationalLink, "https://www.sebi.gov.in")
	assert.Assert(t, is.Len(got.Suggestions, 3))

	// other kinds keep the built-in text
	got = p.Refuse("Any advice?")
	assert.Equal(t, got.Kind, entity.RefusalInvestmentAdvice)
	assert.Assert(t, strings.HasPrefix(got.Message, "I can't help with investment opinions"))
}
