package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `Senior Backend Engineer

We are looking for an engineer with experience building distributed systems.
You will design APIs, operate services in production, and mentor others.

Requirements:
Five or more years writing Go in production. Solid grasp of concurrency.
Experience with message queues and relational databases. Strong testing habits.

Nice to have:
Vector search, LLM integrations, infrastructure as code.`

func TestChunkerShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker(500, 50)

	chunks := chunker.Split("short text")

	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestChunkerEmptyText(t *testing.T) {
	chunker := NewTextChunker(500, 50)

	assert.Empty(t, chunker.Split(""))
}

func TestChunkerRespectsSizeBound(t *testing.T) {
	chunker := NewTextChunker(100, 20)

	chunks := chunker.Split(sampleDocument)

	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 100, "chunk %d too long", i)
		assert.NotEmpty(t, chunk)
	}
}

func TestChunkerIsDeterministic(t *testing.T) {
	chunker := NewTextChunker(120, 30)

	first := chunker.Split(sampleDocument)
	second := chunker.Split(sampleDocument)

	assert.Equal(t, first, second)
}

func TestChunkerCoversAllWords(t *testing.T) {
	chunker := NewTextChunker(80, 10)

	chunks := chunker.Split(sampleDocument)
	joined := strings.Join(chunks, " ")

	for _, word := range strings.Fields(sampleDocument) {
		assert.Contains(t, joined, word)
	}
}

func TestChunkerOverlapsConsecutiveChunks(t *testing.T) {
	overlap := 20
	chunker := NewTextChunker(100, overlap)

	chunks := chunker.Split(sampleDocument)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		next := []rune(chunks[i])

		// The next chunk is seeded with up to `overlap` trailing runes of
		// the previous one; the seed shrinks when the first piece is large.
		shared := 0
		max := overlap
		if len(next) < max {
			max = len(next)
		}
		for k := max; k > 0; k-- {
			if strings.HasSuffix(chunks[i-1], string(next[:k])) {
				shared = k
				break
			}
		}
		assert.Greater(t, shared, 0, "chunks %d and %d share no boundary content", i-1, i)
	}
}

func TestChunkerHardSplitsUnbrokenRuns(t *testing.T) {
	chunker := NewTextChunker(50, 10)

	long := strings.Repeat("x", 300)
	chunks := chunker.Split(long)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 50)
	}
}

func TestChunkerGuardsBadConfig(t *testing.T) {
	// Oversized overlap falls back to a quarter of the chunk size
	chunker := NewTextChunker(100, 200)

	chunks := chunker.Split(sampleDocument)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 100)
	}
}
