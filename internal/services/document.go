package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocumentService extracts text from uploaded files, parses resumes and
// ingests chunked text into the vector store.
type DocumentService interface {
	ExtractText(filePath string) (string, error)
	ParseResume(text string) *ParsedResume
	Ingest(ctx context.Context, collectionName, documentID, text string) (int, error)
}

type ParsedResume struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Summary    string   `json:"summary"`
}

type documentService struct {
	chunker      TextChunker
	vector       VectorService
	chunkSize    int
	chunkOverlap int
}

func NewDocumentService(chunker TextChunker, vector VectorService, chunkSize, chunkOverlap int) DocumentService {
	return &documentService{
		chunker:      chunker,
		vector:       vector,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// ExtractText implements DocumentService. PDF and plain-text files are
// supported.
func (d *documentService) ExtractText(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return extractPDFText(filePath)
	case ".txt", ".md":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
}

func extractPDFText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

// Ingest implements DocumentService: clean, chunk, embed and store.
// Returns the number of chunks created.
func (d *documentService) Ingest(ctx context.Context, collectionName, documentID, text string) (int, error) {
	text = CleanText(text)

	chunks, err := d.chunker.ChunkText(text, d.chunkSize, d.chunkOverlap)
	if err != nil {
		return 0, err
	}

	log.Printf("📚 Storing %d chunks in collection '%s'", len(chunks), collectionName)

	if err := d.vector.StoreDocument(ctx, collectionName, documentID, chunks); err != nil {
		return 0, err
	}

	return len(chunks), nil
}

var skillKeywords = []string{
	"python", "go", "java", "javascript", "typescript", "react", "node",
	"sql", "postgresql", "aws", "docker", "kubernetes", "machine learning",
	"ai", "data science", "grpc", "rest",
}

// ParseResume implements DocumentService. Keyword-based skill matching
// and section splitting; good enough for prompt context.
func (d *documentService) ParseResume(text string) *ParsedResume {
	parsed := &ParsedResume{
		Skills:     []string{},
		Experience: []string{},
		Education:  []string{},
	}

	textLower := strings.ToLower(text)
	for _, skill := range skillKeywords {
		if strings.Contains(textLower, skill) {
			parsed.Skills = append(parsed.Skills, titleWords(skill))
		}
	}

	var summaryParts []string
	currentSection := ""

	for _, line := range strings.Split(text, "\n") {
		lineLower := strings.ToLower(strings.TrimSpace(line))
		trimmed := strings.TrimSpace(line)

		switch {
		case containsAny(lineLower, "experience", "work history"):
			currentSection = "experience"
		case containsAny(lineLower, "education", "academic"):
			currentSection = "education"
		case containsAny(lineLower, "summary", "objective"):
			currentSection = "summary"
		case currentSection != "" && trimmed != "":
			switch currentSection {
			case "summary":
				summaryParts = append(summaryParts, trimmed)
			case "experience":
				parsed.Experience = append(parsed.Experience, trimmed)
			case "education":
				parsed.Education = append(parsed.Education, trimmed)
			}
		}
	}

	parsed.Summary = strings.Join(summaryParts, " ")
	return parsed
}

// titleWords uppercases the first letter of each word. The skill
// keywords are plain ASCII, so byte slicing is safe here.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CleanText normalizes whitespace in extracted document text.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
