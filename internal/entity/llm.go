package entity

// CompletionRequest is one grounded chat turn: a system instruction and a user message carrying context and question.
type CompletionRequest struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}
