package models

import "time"

type CreateSessionRequest struct {
	SubjectName  string `json:"subject_name"`
	ResumeRef    string `json:"resume_ref,omitempty"`
	ReferenceRef string `json:"reference_ref,omitempty"`
}

type SessionResponse struct {
	SessionID       string     `json:"session_id"`
	SubjectName     string     `json:"subject_name"`
	Status          string     `json:"status"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
}

type GenerateQuestionRequest struct {
	SessionID      string `json:"session_id"`
	QuestionNumber int    `json:"question_number"`
}

type GenerateQuestionResponse struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	QuestionOrder int    `json:"question_order"`
}

type SubmitAnswerRequest struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

// EvaluationResult is the fixed JSON schema the evaluation prompt asks
// the model to return. All score fields are required and must fall in
// the 0-10 range.
type EvaluationResult struct {
	CorrectnessScore  float64  `json:"correctness_score"`
	CompletenessScore float64  `json:"completeness_score"`
	ClarityScore      float64  `json:"clarity_score"`
	OverallScore      float64  `json:"overall_score"`
	Feedback          string   `json:"feedback"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
}

type SubmitAnswerResponse struct {
	QuestionID string            `json:"question_id"`
	Evaluation *EvaluationResult `json:"evaluation"`
}

type AddTranscriptRequest struct {
	SessionID string `json:"session_id"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	OffsetMs  int64  `json:"timestamp_offset_ms"`
}

type TranscriptEntryResponse struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	OffsetMs  int64     `json:"timestamp_offset_ms"`
	Timestamp time.Time `json:"timestamp"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}

type SynthesizeResponse struct {
	AudioPath string `json:"audio_path"`
}

type ReportFrameResponse struct {
	SessionID string `json:"session_id"`
	Queued    bool   `json:"queued"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
