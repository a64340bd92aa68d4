package services

import (
	"strings"
	"testing"
)

func TestBuildQuestionPromptIncludesPriorQuestions(t *testing.T) {
	pb := NewPromptBuilder(nil)

	system, user := pb.BuildQuestionPrompt(
		"Backend engineer, 5 years Go.",
		"resume chunk text",
		"reference chunk text",
		[]string{"Tell me about goroutines.", "Explain channels."},
		3, 8,
	)

	if system == "" {
		t.Fatal("expected non-empty system prompt")
	}
	if !strings.Contains(user, "question 3 of 8") {
		t.Errorf("user prompt missing ordinal: %q", user)
	}
	if !strings.Contains(user, "- Tell me about goroutines.") {
		t.Errorf("user prompt missing prior question list")
	}
	if !strings.Contains(user, "resume chunk text") || !strings.Contains(user, "reference chunk text") {
		t.Errorf("user prompt missing retrieved context")
	}
}

func TestBuildQuestionPromptNoPriors(t *testing.T) {
	pb := NewPromptBuilder(nil)

	_, user := pb.BuildQuestionPrompt("", "ctx", "ctx", nil, 1, 8)

	if !strings.Contains(user, "PREVIOUS QUESTIONS:\nNone") {
		t.Errorf("expected 'None' placeholder for empty prior questions")
	}
	if !strings.Contains(user, "Not provided.") {
		t.Errorf("expected 'Not provided.' placeholder for empty summary")
	}
}

func TestBuildEvaluationPrompt(t *testing.T) {
	pb := NewPromptBuilder(nil)

	system, user := pb.BuildEvaluationPrompt("What is a mutex?", "A lock.", "mutex reference text")

	if !strings.Contains(system, "JSON") {
		t.Errorf("evaluation system prompt should demand JSON output")
	}
	for _, want := range []string{"What is a mutex?", "A lock.", "mutex reference text"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestFormatContext(t *testing.T) {
	chunks := []RetrievedChunk{
		{Text: "one two three"},
		{Text: "four five six"},
		{Text: "seven eight nine"},
	}

	t.Run("empty", func(t *testing.T) {
		if got := FormatContext(nil, 3, 100); got != "No relevant context found." {
			t.Errorf("unexpected empty-context result: %q", got)
		}
	})

	t.Run("max chunks", func(t *testing.T) {
		got := FormatContext(chunks, 2, 100)
		if strings.Contains(got, "seven") {
			t.Errorf("third chunk should be dropped: %q", got)
		}
		if !strings.Contains(got, "one") || !strings.Contains(got, "four") {
			t.Errorf("first two chunks should survive: %q", got)
		}
	})

	t.Run("token budget truncates", func(t *testing.T) {
		got := FormatContext(chunks, 3, 4)
		words := strings.Fields(strings.ReplaceAll(got, "\n\n", " "))
		if len(words) != 4 {
			t.Errorf("expected 4 words within budget, got %d: %q", len(words), got)
		}
	})
}
