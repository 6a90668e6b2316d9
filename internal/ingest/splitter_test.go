package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_EmptyInput(t *testing.T) {
	s := NewSplitter(1000, 100)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\n  "))
}

func TestSplitter_ShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(1000, 100)
	chunks := s.Split("A short paragraph about hydration.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short paragraph about hydration.", chunks[0])
}

func TestSplitter_PrefersParagraphBreaks(t *testing.T) {
	s := NewSplitter(40, 0)
	text := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here."

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 40)
		assert.NotContains(t, c, "\n\n")
	}
	assert.Contains(t, chunks[0], "First paragraph here.")
}

func TestSplitter_RespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("the quick brown fox jumps over the lazy dog ")
	}

	chunks := s.Split(b.String())
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqualf(t, len(c), 100, "chunk %d too large", i)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestSplitter_OverlapCarriesContext(t *testing.T) {
	s := NewSplitter(50, 20)
	text := strings.Repeat("alpha beta gamma delta epsilon ", 10)

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	// Consecutive chunks share a tail because of the overlap.
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		require.NotEmpty(t, prevWords)
		last := prevWords[len(prevWords)-1]
		assert.Containsf(t, chunks[i], last, "chunk %d should overlap with chunk %d", i, i-1)
	}
}

func TestSplitter_UnbreakableRunFallsBackToCharacters(t *testing.T) {
	s := NewSplitter(30, 0)
	text := strings.Repeat("x", 100)

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 30)
		total += len(c)
	}
	assert.Equal(t, 100, total)
}

func TestSplitter_ContentIsPreserved(t *testing.T) {
	s := NewSplitter(60, 10)
	text := "Symptoms include fever and chills.\nTreatment is rest and fluids.\nSee a doctor if symptoms persist."

	joined := strings.Join(s.Split(text), " ")
	for _, want := range []string{"fever", "chills", "rest and fluids", "symptoms persist"} {
		assert.Contains(t, joined, want)
	}
}
