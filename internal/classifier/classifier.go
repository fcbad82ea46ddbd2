package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
)

const (
	DefaultAdvisoryConfidence = 0.9

	baseFactualConfidence = 0.5
	factualKeywordWeight  = 0.1
	maxFactualConfidence  = 0.9
)

// Operational phrasing suppresses advisory detection: "how can I download..." is a how-to question.
var defaultOperationalKeywords = []string{
	"download", "access", "get", "find", "where", "how to", "how do i",
	"how can i", "steps to", "guide", "instructions", "process",
}

var defaultAdvisoryPatterns = []string{
	`\b(should i|shall i|can i|would you recommend)\b`,
	`\b(recommend|suggestion|suggest|advice|advise)\b.*\bfund\b`,
	`\b(best fund|better fund|which fund|what fund should)\b`,
	`\b(buy|sell|invest in|switch to|move to)\b.*\bfund\b`,
	`\b(good time|right time|when to)\b.*\b(invest|buy|sell)\b`,
	`\b(portfolio|allocation|diversif)\b`,
	`\bis .* better than\b`,
	`\bshould i (buy|sell|invest|switch)\b`,
	`\b(worth investing|good investment)\b`,
	`\b(compare|comparison)\b.*\bfund`,
	`\b(good for|suitable for|right for)\b.*\b(me|my|long.?term|wealth|retirement)\b`,
	`\b(highest|maximum|best) (return|profit|gain)`,
	`\b(will (give|provide|generate))\b.*\b(return|profit)`,
	`\b(safer|riskier|risky to invest)\b`,
	`\b(perform better|outperform|beat)\b`,
}

var defaultFactualKeywords = []string{
	"expense ratio", "exit load", "minimum sip", "lock-in", "lock in",
	"elss", "riskometer", "benchmark", "download statement",
	"nav", "aum", "fund manager", "investment objective",
	"asset allocation", "portfolio holdings", "top holdings",
	"what is", "how to", "when does", "where can i",
	"how do i", "how can i", "tell me about", "explain",
	"factsheet", "scheme information", "fund details",
	"capital gains", "dividend", "returns", "performance",
}

// Classifier is a closed decision table: operational override, then advisory patterns,
// then factual keyword count, then the factual default. It holds no mutable state.
type Classifier struct {
	operational        []*regexp.Regexp
	advisory           []*regexp.Regexp
	factual            []*regexp.Regexp
	advisoryConfidence float64
}

// New builds a classifier from the built-in tables, replacing each table the policy provides.
// policy may be nil.
func New(policy *config.ClassifierPolicy, advisoryConfidence float64) (*Classifier, error) {
	operational := defaultOperationalKeywords
	advisory := defaultAdvisoryPatterns
	factual := defaultFactualKeywords
	if policy != nil {
		if len(policy.OperationalKeywords) > 0 {
			operational = policy.OperationalKeywords
		}
		if len(policy.AdvisoryPatterns) > 0 {
			advisory = policy.AdvisoryPatterns
		}
		if len(policy.FactualKeywords) > 0 {
			factual = policy.FactualKeywords
		}
	}
	if advisoryConfidence <= 0 || advisoryConfidence > 1 {
		advisoryConfidence = DefaultAdvisoryConfidence
	}

	c := &Classifier{advisoryConfidence: advisoryConfidence}

	for _, p := range advisory {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: advisory pattern %q: %v", entity.ErrInvalidParameter, p, err)
		}
		c.advisory = append(c.advisory, re)
	}
	c.operational = keywordMatchers(operational, false)
	c.factual = keywordMatchers(factual, true)

	return c, nil
}

// MustNew is New with the built-in tables.
func MustNew() *Classifier {
	c, err := New(nil, DefaultAdvisoryConfidence)
	if err != nil {
		panic(err)
	}
	return c
}

// keywordMatchers anchors each keyword at a word start. Whole-word matchers also anchor the end,
// so "nav" does not fire inside "navigation"; the others accept inflections like "downloading".
func keywordMatchers(keywords []string, wholeWord bool) []*regexp.Regexp {
	suffix := ""
	if wholeWord {
		suffix = `\b`
	}

	matchers := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		matchers = append(matchers, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+suffix))
	}
	return matchers
}

func (c *Classifier) Classify(query string) entity.QueryClassification {
	q := strings.ToLower(strings.TrimSpace(query))

	if !c.isOperational(q) {
		for _, re := range c.advisory {
			if re.MatchString(q) {
				return entity.QueryClassification{
					Type:       entity.QueryTypeAdvisory,
					Confidence: c.advisoryConfidence,
					Reason:     "matched pattern " + re.String(),
				}
			}
		}
	}

	count := 0
	for _, re := range c.factual {
		if re.MatchString(q) {
			count++
		}
	}
	if count > 0 {
		return entity.QueryClassification{
			Type:       entity.QueryTypeFactual,
			Confidence: min(maxFactualConfidence, baseFactualConfidence+factualKeywordWeight*float64(count)),
			Reason:     fmt.Sprintf("%d factual keyword(s)", count),
		}
	}

	return entity.QueryClassification{
		Type:       entity.QueryTypeFactual,
		Confidence: baseFactualConfidence,
		Reason:     "no strong indicators",
	}
}

func (c *Classifier) isOperational(q string) bool {
	for _, re := range c.operational {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}
