package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	s := New(100, 20, 10)

	chunks := s.Split("  A short paragraph about registration.  ")

	require.Len(t, chunks, 1)
	assert.Equal(t, "A short paragraph about registration.", chunks[0])
}

func TestSplitDropsChunksBelowMinLength(t *testing.T) {
	s := New(100, 20, 50)

	assert.Empty(t, s.Split("too short"))
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := New(100, 20, 10)
	text := strings.Repeat("This is a sentence about startup policy. ", 50)

	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), 100, "chunk %d", i)
	}
}

func TestSplitChunksAreSubstringsOfInput(t *testing.T) {
	s := New(120, 30, 10)
	text := "First paragraph about eligibility.\n\nSecond paragraph about funding schemes.\n\nThird paragraph about tax exemptions for recognised startups under section 80-IAC."

	for _, c := range s.Split(text) {
		assert.Contains(t, text, c)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	s := New(100, 20, 10)
	text := strings.Repeat("Deterministic output matters for stable chunk ids. ", 30)

	assert.Equal(t, s.Split(text), s.Split(text))
}

func TestSplitFixedWindowsWithoutSeparators(t *testing.T) {
	s := New(100, 20, 10)
	text := strings.Repeat("a", 250)

	chunks := s.Split(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, text[:100], chunks[0])
	// Windows step by chunkSize-overlap, so adjacent chunks share 20 chars.
	assert.Equal(t, text[80:180], chunks[1])
	assert.Equal(t, text[160:250], chunks[2])
}

func TestNewClampsExcessiveOverlap(t *testing.T) {
	s := New(100, 150, 10)
	text := strings.Repeat("b", 300)

	// Overlap clamps to a quarter of the chunk size, stepping 75.
	chunks := s.Split(text)
	require.Len(t, chunks, 4)
	assert.Equal(t, text[75:175], chunks[1])
}

func TestNewDefaults(t *testing.T) {
	s := New(0, -1, 0)

	assert.Equal(t, DefaultChunkSize, s.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, s.overlap)
	assert.Equal(t, DefaultMinLength, s.minLength)
}
