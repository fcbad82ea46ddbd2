package classifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"gotest.tools/v3/assert"
)

func TestClassify(t *testing.T) {
	c := MustNew()

	tests := []struct {
		query    string
		wantType entity.QueryType
	}{
		{query: "Should I buy HDFC Midcap Fund?", wantType: entity.QueryTypeAdvisory},
		{query: "Which fund is better for me?", wantType: entity.QueryTypeAdvisory},
		{query: "Is this a good time to invest?", wantType: entity.QueryTypeAdvisory},
		{query: "Can you recommend a fund?", wantType: entity.QueryTypeAdvisory},
		{query: "Should I switch from Fund A to Fund B?", wantType: entity.QueryTypeAdvisory},
		{query: "What's a good portfolio allocation?", wantType: entity.QueryTypeAdvisory},
		{query: "Will HDFC Small Cap outperform the index?", wantType: entity.QueryTypeAdvisory},
		{query: "What is the expense ratio of HDFC Midcap Fund?", wantType: entity.QueryTypeFactual},
		{query: "How do I download my capital gains statement?", wantType: entity.QueryTypeFactual},
		{query: "What is the lock-in period for ELSS funds?", wantType: entity.QueryTypeFactual},
		{query: "Tell me about HDFC Small Cap Fund", wantType: entity.QueryTypeFactual},
		{query: "What is the minimum SIP amount?", wantType: entity.QueryTypeFactual},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.Classify(tt.query)
			assert.Equal(t, got.Type, tt.wantType, got.Reason)
		})
	}
}

func TestClassifyAdvisoryConfidence(t *testing.T) {
	got := MustNew().Classify("Should I buy HDFC Midcap Fund?")

	assert.Equal(t, got.Type, entity.QueryTypeAdvisory)
	assert.Equal(t, got.Confidence, 0.9)
	assert.Assert(t, strings.HasPrefix(got.Reason, "matched pattern "))
	assert.Assert(t, strings.Contains(got.Reason, "should i"))
}

func TestClassifyFactualConfidence(t *testing.T) {
	got := MustNew().Classify("  What is the EXPENSE RATIO of HDFC Midcap Fund?  ")

	assert.Equal(t, got.Type, entity.QueryTypeFactual)
	assert.Assert(t, got.Confidence >= 0.6)
	assert.Equal(t, got.Reason, "2 factual keyword(s)")
}

func TestClassifyFactualConfidenceIsCapped(t *testing.T) {
	got := MustNew().Classify("What is the expense ratio, exit load, NAV, AUM, benchmark and riskometer of the ELSS fund?")

	assert.Equal(t, got.Type, entity.QueryTypeFactual)
	assert.Equal(t, got.Confidence, 0.9)
}

func TestOperationalOverrideSuppressesAdvisory(t *testing.T) {
	c := MustNew()

	// "can i" alone is an advisory pattern
	assert.Equal(t, c.Classify("Can I switch to this fund?").Type, entity.QueryTypeAdvisory)

	got := c.Classify("How can I download my capital gains statement?")
	assert.Equal(t, got.Type, entity.QueryTypeFactual)

	got = c.Classify("Where can I find steps to switch to a direct plan fund?")
	assert.Equal(t, got.Type, entity.QueryTypeFactual)
}

func TestOperationalOverrideMatchesInflections(t *testing.T) {
	c := MustNew()

	for _, query := range []string{
		"Should I be downloading the factsheet for this fund?",
		"Should I worry about getting into this fund through a distributor?",
		"Can I keep accessing my statements after I sell the fund?",
	} {
		t.Run(query, func(t *testing.T) {
			got := c.Classify(query)
			assert.Equal(t, got.Type, entity.QueryTypeFactual, got.Reason)
		})
	}
}

func TestClassifyDefault(t *testing.T) {
	got := MustNew().Classify("navigation settings")

	assert.Equal(t, got.Type, entity.QueryTypeFactual)
	assert.Equal(t, got.Confidence, 0.5)
	assert.Equal(t, got.Reason, "no strong indicators")
}

func TestPolicyOverrides(t *testing.T) {
	c, err := New(&config.ClassifierPolicy{
		AdvisoryPatterns: []string{`\bguarantee`},
		FactualKeywords:  []string{"tracking error"},
	}, 0.8)
	assert.NilError(t, err)

	got := c.Classify("Do you guarantee returns?")
	assert.Equal(t, got.Type, entity.QueryTypeAdvisory)
	assert.Equal(t, got.Confidence, 0.8)

	// built-in advisory table is replaced
	assert.Equal(t, c.Classify("Should I buy HDFC Midcap Fund?").Type, entity.QueryTypeFactual)

	got = c.Classify("What is the tracking error?")
	assert.Equal(t, got.Reason, "1 factual keyword(s)")
}

func TestInvalidPattern(t *testing.T) {
	_, err := New(&config.ClassifierPolicy{AdvisoryPatterns: []string{"(unclosed"}}, 0.9)
	assert.Assert(t, errors.Is(err, entity.ErrInvalidParameter))
}
