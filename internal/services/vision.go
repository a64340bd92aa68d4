package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"interview-platform/internal/apperrors"
)

// VisionService analyzes interview frames with the local vision model
// to flag proctoring anomalies.
type VisionService interface {
	AnalyzeFrame(ctx context.Context, frame []byte) (*FrameAnalysis, error)
	Enabled() bool
}

type FrameAnalysis struct {
	PersonCount     int     `json:"person_count"`
	FaceDetected    bool    `json:"face_detected"`
	LookingAtCamera bool    `json:"looking_at_camera"`
	AnomalyDetected bool    `json:"anomaly_detected"`
	AnomalyType     string  `json:"anomaly_type"`
	ConfidenceScore float64 `json:"confidence_score"`
}

type visionService struct {
	llm     LLMService
	prompts *PromptBuilder
	enabled bool
}

func NewVisionService(llm LLMService, prompts *PromptBuilder, enabled bool) VisionService {
	return &visionService{
		llm:     llm,
		prompts: prompts,
		enabled: enabled,
	}
}

// Enabled implements VisionService.
func (v *visionService) Enabled() bool {
	return v.enabled
}

// AnalyzeFrame implements VisionService.
func (v *visionService) AnalyzeFrame(ctx context.Context, frame []byte) (*FrameAnalysis, error) {
	if !v.enabled {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "vision processing is disabled")
	}

	encoded := base64.StdEncoding.EncodeToString(frame)

	response, err := v.llm.AnalyzeImage(ctx, encoded, v.prompts.VisionFramePrompt())
	if err != nil {
		return nil, err
	}

	var analysis FrameAnalysis
	if err := json.Unmarshal([]byte(extractJSON(response)), &analysis); err != nil {
		return nil, apperrors.Wrap(apperrors.KindMalformedModelOutput, err, "vision model output is not valid JSON")
	}

	if analysis.AnomalyDetected && analysis.AnomalyType == "" {
		return nil, apperrors.New(apperrors.KindMalformedModelOutput, "vision model flagged an anomaly without a type")
	}

	return &analysis, nil
}

func (a *FrameAnalysis) String() string {
	return fmt.Sprintf("persons=%d face=%t anomaly=%s", a.PersonCount, a.FaceDetected, a.AnomalyType)
}
