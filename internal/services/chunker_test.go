package services

import (
	"fmt"
	"strings"
	"testing"

	"interview-platform/internal/apperrors"
)

func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkTextOverlap(t *testing.T) {
	chunker := NewTextChunker()

	// 1200 words, chunk 500, overlap 100: windows start at 0, 400, 800.
	chunks, err := chunker.ChunkText(makeWords(1200), 500, 100)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	for i := 0; i < len(chunks)-1; i++ {
		prev := strings.Fields(chunks[i])
		next := strings.Fields(chunks[i+1])
		tail := prev[len(prev)-100:]
		head := next[:100]
		for j := range tail {
			if tail[j] != head[j] {
				t.Fatalf("chunk %d/%d overlap mismatch at word %d: %s != %s", i, i+1, j, tail[j], head[j])
			}
		}
	}

	last := strings.Fields(chunks[2])
	if len(last) != 400 {
		t.Errorf("expected final chunk of 400 words, got %d", len(last))
	}
}

func TestChunkTextShortInput(t *testing.T) {
	chunker := NewTextChunker()

	chunks, err := chunker.ChunkText(makeWords(50), 500, 100)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if len(strings.Fields(chunks[0])) != 50 {
		t.Errorf("short input should be a single chunk with all words")
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	chunks, err := chunker.ChunkText("   \n\t ", 500, 100)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace input, got %d", len(chunks))
	}
}

func TestChunkTextInvalidConfig(t *testing.T) {
	chunker := NewTextChunker()

	cases := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -5, 0},
		{"negative overlap", 100, -1},
		{"overlap equals chunk size", 100, 100},
		{"overlap exceeds chunk size", 100, 150},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := chunker.ChunkText("some text here", tc.chunkSize, tc.overlap)
			if !apperrors.Is(err, apperrors.KindInvalidConfiguration) {
				t.Errorf("expected INVALID_CONFIGURATION, got %v", err)
			}
		})
	}
}

func TestChunkTextExactMultiple(t *testing.T) {
	chunker := NewTextChunker()

	// 500 words exactly fills one window; no trailing empty chunk.
	chunks, err := chunker.ChunkText(makeWords(500), 500, 100)
	if err != nil {
		t.Fatalf("ChunkText failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}
