package entity

type QueryType string

const (
	QueryTypeFactual  QueryType = "factual"
	QueryTypeAdvisory QueryType = "advisory"
)

// QueryClassification is produced fresh for every query and never persisted.
type QueryClassification struct {
	Type       QueryType `json:"type"`
	Confidence float64   `json:"confidence"`
	Reason     string    `json:"reason"`
}

func (c QueryClassification) IsAdvisory() bool {
	return c.Type == QueryTypeAdvisory
}

// RetrievalResult is one stored chunk scored against a query. Higher Score is more similar.
type RetrievalResult struct {
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
	Score    float64       `json:"score"`
}

type RefusalKind string

const (
	RefusalComparison       RefusalKind = "comparison"
	RefusalPortfolioAdvice  RefusalKind = "portfolio_advice"
	RefusalTiming           RefusalKind = "timing"
	RefusalInvestmentAdvice RefusalKind = "investment_advice"
	RefusalDefault          RefusalKind = "default"
)

type RefusalResult struct {
	Kind            RefusalKind `json:"kind"`
	Message         string      `json:"message"`
	EducationalLink string      `json:"educational_link"`
	Suggestions     []string    `json:"suggestions"`
}

// AnswerOutcome tells the pipeline how an answer was produced.
type AnswerOutcome string

const (
	OutcomeAnswered      AnswerOutcome = "answered"
	OutcomeNoEvidence    AnswerOutcome = "no_evidence"
	OutcomeUnknown       AnswerOutcome = "model_unknown"
	OutcomeMissingConfig AnswerOutcome = "missing_config"
	OutcomeFailed        AnswerOutcome = "failed"
)

type GeneratedAnswer struct {
	Text    string
	Outcome AnswerOutcome
	// Used holds the results that were placed in the model context.
	Used []RetrievalResult
}

// AnswerBundle is the pipeline output.
type AnswerBundle struct {
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources"`
	Suggestions []string `json:"suggestions"`
}
