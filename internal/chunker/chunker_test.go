package chunker

import (
	"fmt"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestChunkShortTextIsReturnedVerbatim(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "irregular whitespace", text: "  Expense ratio:\t1.61%\n\np.a.  "},
		{name: "exactly max", text: words(DefaultMaxTokens)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text, DefaultMaxTokens, DefaultOverlap)
			assert.DeepEqual(t, got, []string{tt.text})
		})
	}
}

func TestChunkOverlapBetweenWindows(t *testing.T) {
	text := words(1000)
	chunks := New(DefaultMaxTokens, DefaultOverlap).Chunk(text)

	// starts at 0, 350, 700
	assert.Assert(t, is.Len(chunks, 3))
	for i, c := range chunks[:len(chunks)-1] {
		assert.Equal(t, len(strings.Fields(c)), DefaultMaxTokens, "chunk %d", i)
	}
	assert.Equal(t, len(strings.Fields(chunks[2])), 300)

	for i := 0; i < len(chunks)-1; i++ {
		cur := strings.Fields(chunks[i])
		next := strings.Fields(chunks[i+1])
		assert.DeepEqual(t, cur[len(cur)-DefaultOverlap:], next[:DefaultOverlap])
	}

	assert.Assert(t, strings.HasPrefix(chunks[0], "w0 "))
	assert.Assert(t, strings.HasSuffix(chunks[2], " w999"))
}

func TestChunkDegenerateStepDoesNotLoop(t *testing.T) {
	chunks := Chunk(words(5), 3, 3)

	assert.DeepEqual(t, chunks, []string{
		"w0 w1 w2",
		"w1 w2 w3",
		"w2 w3 w4",
		"w3 w4",
		"w4",
	})
}

func TestChunkIsDeterministic(t *testing.T) {
	text := words(901)
	assert.DeepEqual(t, Chunk(text, 400, 50), Chunk(text, 400, 50))
}

func TestNewNormalizesSettings(t *testing.T) {
	c := New(0, -5)
	assert.Equal(t, c.MaxTokens(), DefaultMaxTokens)
	assert.Equal(t, c.Overlap(), 0)
}
