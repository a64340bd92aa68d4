package services

import (
	"fmt"
	"strings"

	"interview-platform/internal/config"
)

// PromptBuilder assembles the prompts sent to the language model. It is
// pure: same inputs, same prompt.
type PromptBuilder struct {
	templates *config.PromptTemplates
}

func NewPromptBuilder(templates *config.PromptTemplates) *PromptBuilder {
	if templates == nil {
		templates = config.DefaultPromptTemplates()
	}
	return &PromptBuilder{templates: templates}
}

// BuildQuestionPrompt creates the prompt pair for generating one
// interview question. Prior questions ride along as a best-effort
// repetition-avoidance instruction; nothing outside the prompt
// de-duplicates.
func (pb *PromptBuilder) BuildQuestionPrompt(
	resumeSummary string,
	resumeContext string,
	referenceContext string,
	priorQuestions []string,
	questionNumber int,
	totalQuestions int,
) (systemPrompt, userPrompt string) {
	previous := "None"
	if len(priorQuestions) > 0 {
		var lines []string
		for _, q := range priorQuestions {
			lines = append(lines, "- "+q)
		}
		previous = strings.Join(lines, "\n")
	}

	if resumeSummary == "" {
		resumeSummary = "Not provided."
	}

	userPrompt = fmt.Sprintf(`Generate interview question %d of %d.

CANDIDATE SUMMARY:
%s

CANDIDATE RESUME:
%s

REFERENCE MATERIALS:
%s

PREVIOUS QUESTIONS:
%s

Generate a single, clear interview question that:
1. Is relevant to the candidate's background
2. Assesses important skills for the role
3. Doesn't repeat previous questions
4. Can be answered in 1-3 minutes

Return ONLY the question text, nothing else.`,
		questionNumber, totalQuestions, resumeSummary, resumeContext, referenceContext, previous)

	return pb.templates.QuestionSystem, userPrompt
}

// BuildEvaluationPrompt creates the prompt pair for scoring a
// candidate's answer against the reference context.
func (pb *PromptBuilder) BuildEvaluationPrompt(questionText, answerText, referenceContext string) (systemPrompt, userPrompt string) {
	userPrompt = fmt.Sprintf(`Evaluate this interview response:

QUESTION:
%s

CANDIDATE'S ANSWER:
%s

REFERENCE CONTEXT:
%s

Provide a thorough evaluation in JSON format.`,
		questionText, answerText, referenceContext)

	return pb.templates.EvaluationSystem, userPrompt
}

// VisionFramePrompt returns the proctoring frame-analysis prompt.
func (pb *PromptBuilder) VisionFramePrompt() string {
	return pb.templates.VisionFrame
}

// FormatContext concatenates retrieved chunks into a prompt section,
// keeping at most maxChunks chunks and roughly tokenBudget words in
// total. The last chunk gets truncated rather than dropped.
func FormatContext(chunks []RetrievedChunk, maxChunks, tokenBudget int) string {
	if len(chunks) == 0 {
		return "No relevant context found."
	}
	if maxChunks > 0 && len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}

	var parts []string
	remaining := tokenBudget
	for _, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		if tokenBudget > 0 {
			words := strings.Fields(text)
			if len(words) > remaining {
				if remaining <= 0 {
					break
				}
				text = strings.Join(words[:remaining], " ")
			}
			remaining -= len(strings.Fields(text))
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "No relevant context found."
	}

	return strings.Join(parts, "\n\n")
}
