package chunker

import "strings"

const (
	DefaultMaxTokens = 400
	DefaultOverlap   = 50
)

// Chunker splits document text into overlapping word windows.
type Chunker struct {
	maxTokens int
	overlap   int
}

// New returns a chunker; non-positive maxTokens falls back to DefaultMaxTokens and negative overlap to zero.
func New(maxTokens, overlap int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{maxTokens: maxTokens, overlap: overlap}
}

func (c *Chunker) MaxTokens() int { return c.maxTokens }
func (c *Chunker) Overlap() int   { return c.overlap }

// Chunk splits text with the chunker's settings.
func (c *Chunker) Chunk(text string) []string {
	return Chunk(text, c.maxTokens, c.overlap)
}

// Chunk returns text unchanged as a single chunk when it has at most maxTokens words.
// Longer text is cut into windows of maxTokens words advancing by maxTokens-overlap
// (at least one word), joined with single spaces.
func Chunk(text string, maxTokens, overlap int) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	words := strings.Fields(text)
	if len(words) <= maxTokens {
		return []string{text}
	}

	step := maxTokens - overlap
	if step <= 0 {
		step = 1
	}

	chunks := make([]string, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := min(start+maxTokens, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
