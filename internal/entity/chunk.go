package entity

import "strings"

// UnknownValue is stored when a document record does not name its scheme or category.
const UnknownValue = "UNKNOWN"

// DocumentRecord is one cleaned document produced by the ingestion side.
type DocumentRecord struct {
	Scheme        string `json:"scheme,omitempty"`
	Category      string `json:"category,omitempty"`
	ExtractedText string `json:"extracted_text"`
	SourceURL     string `json:"source_url,omitempty"`
	SourceType    string `json:"source_type,omitempty"`
	SourceFile    string `json:"source_file,omitempty"`
}

// Metadata returns the chunk metadata derived from the record with defaults applied.
func (d DocumentRecord) Metadata() ChunkMetadata {
	m := ChunkMetadata{
		Scheme:     strings.TrimSpace(d.Scheme),
		Category:   strings.TrimSpace(d.Category),
		SourceURL:  d.SourceURL,
		SourceType: d.SourceType,
		SourceFile: d.SourceFile,
	}
	if m.Scheme == "" {
		m.Scheme = UnknownValue
	}
	if m.Category == "" {
		m.Category = UnknownValue
	}
	return m
}

// ChunkMetadata is copied verbatim from the source document to every chunk derived from it.
type ChunkMetadata struct {
	Scheme     string `json:"scheme"`
	Category   string `json:"category"`
	SourceURL  string `json:"source_url"`
	SourceType string `json:"source_type"`
	SourceFile string `json:"source_file"`
}

// SourceID identifies where a chunk came from: the URL when known, otherwise the file name.
func (m ChunkMetadata) SourceID() string {
	if m.SourceURL != "" {
		return m.SourceURL
	}
	return m.SourceFile
}

type Chunk struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Metadata  ChunkMetadata `json:"metadata"`
	Embedding []float32     `json:"-"`
}
