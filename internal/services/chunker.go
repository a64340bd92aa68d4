package services

import (
	"strings"

	"interview-platform/internal/apperrors"
)

type TextChunker interface {
	ChunkText(text string, chunkSize int, overlap int) ([]string, error)
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText splits text into word-count windows. Consecutive chunks
// share exactly `overlap` words; the final chunk may be shorter than
// chunkSize.
func (tc *textChunker) ChunkText(text string, chunkSize int, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "chunk_size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "overlap %d must be smaller than chunk_size %d", overlap, chunkSize)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	step := chunkSize - overlap

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}

	return chunks, nil
}
