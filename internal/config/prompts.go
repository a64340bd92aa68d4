package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PromptTemplates holds the system prompts sent to the language model.
// A YAML file referenced by PROMPTS_FILE can override any of them;
// empty fields keep their defaults.
type PromptTemplates struct {
	QuestionSystem   string `yaml:"question_system"`
	EvaluationSystem string `yaml:"evaluation_system"`
	VisionFrame      string `yaml:"vision_frame"`
}

const defaultQuestionSystem = `You are an expert technical interviewer. Generate thoughtful, relevant interview questions based on the candidate's resume and reference materials.

Guidelines:
- Ask questions that assess both theoretical knowledge and practical experience
- Build upon previous questions naturally
- Vary difficulty appropriately
- Be specific and clear
- Focus on topics mentioned in the resume or reference materials`

const defaultEvaluationSystem = `You are an expert interviewer evaluating candidate responses. Provide fair, constructive feedback.

Evaluate answers on:
- Correctness: Technical accuracy
- Completeness: Coverage of key points
- Clarity: Communication effectiveness
- Depth: Understanding demonstrated

Return your evaluation as JSON with this exact structure:
{
    "correctness_score": 0-10,
    "completeness_score": 0-10,
    "clarity_score": 0-10,
    "overall_score": 0-10,
    "feedback": "Constructive feedback here",
    "strengths": ["strength 1", "strength 2"],
    "improvements": ["area 1", "area 2"]
}`

const defaultVisionFrame = `Analyze this image from an interview/exam setting.

Determine:
1. Number of people visible
2. Is a face clearly detected?
3. Is the person looking at the camera?
4. Any anomalies (multiple people, no face, looking away)?

Return ONLY a JSON object with this exact structure:
{
    "person_count": <number>,
    "face_detected": <true/false>,
    "looking_at_camera": <true/false>,
    "anomaly_detected": <true/false>,
    "anomaly_type": "<MULTIPLE_PERSONS|NO_FACE|LOOKING_AWAY|NONE>",
    "confidence_score": <0.0-1.0>
}`

func DefaultPromptTemplates() *PromptTemplates {
	return &PromptTemplates{
		QuestionSystem:   defaultQuestionSystem,
		EvaluationSystem: defaultEvaluationSystem,
		VisionFrame:      defaultVisionFrame,
	}
}

// LoadPromptTemplates reads template overrides from path. A missing or
// empty path yields the defaults.
func LoadPromptTemplates(path string) (*PromptTemplates, error) {
	templates := DefaultPromptTemplates()
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return templates, nil
		}
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var overrides PromptTemplates
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	if overrides.QuestionSystem != "" {
		templates.QuestionSystem = overrides.QuestionSystem
	}
	if overrides.EvaluationSystem != "" {
		templates.EvaluationSystem = overrides.EvaluationSystem
	}
	if overrides.VisionFrame != "" {
		templates.VisionFrame = overrides.VisionFrame
	}

	return templates, nil
}
