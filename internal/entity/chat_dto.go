package entity

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources"`
	SourceNames []string `json:"source_names"`
	Suggestions []string `json:"suggestions"`
}

type IndexStats struct {
	Chunks         int            `json:"chunks"`
	Dimension      int            `json:"dimension"`
	EmbeddingModel string         `json:"embedding_model,omitempty"`
	Generation     string         `json:"generation,omitempty"`
	ChunksByScheme map[string]int `json:"chunks_by_scheme"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Chunks int    `json:"chunks"`
}
