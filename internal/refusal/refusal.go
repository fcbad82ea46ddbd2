package refusal

import (
	"strings"

	"github.com/futig/fundfacts/internal/config"
	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/suggestion"
)

const DefaultSuggestionCount = 2

type template struct {
	message string
	link    string
}

var defaultTemplates = map[entity.RefusalKind]template{
	entity.RefusalInvestmentAdvice: {
		message: "I can't help with investment opinions or recommendations.\n\nI can, however, share factual information from official sources.",
		link:    "https://www.amfiindia.com/investor-corner/knowledge-center",
	},
	entity.RefusalPortfolioAdvice: {
		message: "I can't help with portfolio decisions.\n\nI can, however, share factual information from official sources.",
		link:    "https://www.amfiindia.com/investor-corner/knowledge-center/basics-of-mutual-funds",
	},
	entity.RefusalComparison: {
		message: "I can't compare or recommend funds.\n\nI can, however, share factual information about individual funds from official sources.",
		link:    "https://www.amfiindia.com/investor-corner/knowledge-center/how-to-invest-in-mutual-funds",
	},
	entity.RefusalTiming: {
		message: "I can't advise on market timing or when to invest.\n\nI can, however, share factual information from official sources.",
		link:    "https://www.amfiindia.com/investor-corner/knowledge-center/understanding-risk-and-return",
	},
	entity.RefusalDefault: {
		message: "I can only provide factual information from official sources, not investment advice.\n\nI can, however, help you with specific fund details.",
		link:    "https://www.amfiindia.com/investor-corner/knowledge-center",
	},
}

type trigger struct {
	kind  entity.RefusalKind
	words []string
}

// Checked in order; the first group with a hit decides the kind.
var triggers = []trigger{
	{kind: entity.RefusalComparison, words: []string{"recommend", "suggest", "best", "better", "which", "compare", "comparison", " vs ", "versus"}},
	{kind: entity.RefusalPortfolioAdvice, words: []string{"portfolio", "allocation", "diversif"}},
	{kind: entity.RefusalTiming, words: []string{"good time", "right time", "when to"}},
	{kind: entity.RefusalInvestmentAdvice, words: []string{"should i", "advice", "advise"}},
}

// Policy turns an advisory query into a polite refusal with an educational link and factual suggestions.
type Policy struct {
	templates map[entity.RefusalKind]template
	sampler   *suggestion.Sampler
	count     int
}

// New merges the policy templates over the built-in table. policy may be nil.
func New(policy *config.RefusalPolicy, sampler *suggestion.Sampler, suggestionCount int) *Policy {
	templates := make(map[entity.RefusalKind]template, len(defaultTemplates))
	for kind, tpl := range defaultTemplates {
		templates[kind] = tpl
	}
	if policy != nil {
		for kind, tpl := range policy.Templates {
			templates[entity.RefusalKind(kind)] = template{message: tpl.Message, link: tpl.EducationalLink}
		}
	}
	if suggestionCount <= 0 {
		suggestionCount = DefaultSuggestionCount
	}

	return &Policy{
		templates: templates,
		sampler:   sampler,
		count:     suggestionCount,
	}
}

// Kind picks the refusal subtype by scanning the query for trigger words.
func Kind(query string) entity.RefusalKind {
	q := " " + strings.ToLower(query) + " "
	for _, t := range triggers {
		for _, w := range t.words {
			if strings.Contains(q, w) {
				return t.kind
			}
		}
	}
	return entity.RefusalDefault
}

func (p *Policy) Refuse(query string) entity.RefusalResult {
	kind := Kind(query)
	tpl, ok := p.templates[kind]
	if !ok {
		tpl = p.templates[entity.RefusalDefault]
	}

	return entity.RefusalResult{
		Kind:            kind,
		Message:         tpl.message,
		EducationalLink: tpl.link,
		Suggestions:     p.sampler.RefusalSuggestions(p.count),
	}
}
