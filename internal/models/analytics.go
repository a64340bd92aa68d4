package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsSnapshot struct {
	ID                     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"analytics_id"`
	SessionID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	QuestionsCount         int       `gorm:"not null;default:0" json:"questions_count"`
	QuestionsAnswered      int       `gorm:"not null;default:0" json:"questions_answered"`
	TranscriptEntriesCount int       `gorm:"not null;default:0" json:"transcript_entries_count"`
	ProctoringFlagsCount   int       `gorm:"not null;default:0" json:"proctoring_flags_count"`
	AvgOverallScore        *float64  `json:"avg_overall_score,omitempty"`
	AvgCorrectnessScore    *float64  `json:"avg_correctness_score,omitempty"`
	AvgCompletenessScore   *float64  `json:"avg_completeness_score,omitempty"`
	AvgClarityScore        *float64  `json:"avg_clarity_score,omitempty"`
	AvgResponseTimeSeconds *float64  `json:"avg_response_time_seconds,omitempty"`
	GeneratedAt            time.Time `gorm:"type:timestamp;default:now()" json:"generated_at"`

	// Relations
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"-"`
}

func (AnalyticsSnapshot) TableName() string {
	return "session_analytics"
}
