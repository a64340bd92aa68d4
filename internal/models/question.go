package models

import (
	"time"

	"github.com/google/uuid"
)

type Question struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"question_id"`
	SessionID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_session_question_order" json:"session_id"`
	QuestionText        string     `gorm:"type:text;not null" json:"question_text"`
	QuestionOrder       int        `gorm:"not null;uniqueIndex:idx_session_question_order" json:"question_order"`
	AskedAt             time.Time  `gorm:"type:timestamp;default:now()" json:"asked_at"`
	UserAnswer          *string    `gorm:"type:text" json:"user_answer,omitempty"`
	AnsweredAt          *time.Time `gorm:"type:timestamp" json:"answered_at,omitempty"`
	ResponseTimeSeconds *float64   `json:"response_time_seconds,omitempty"`
	CorrectnessScore    *float64   `json:"correctness_score,omitempty"`
	CompletenessScore   *float64   `json:"completeness_score,omitempty"`
	ClarityScore        *float64   `json:"clarity_score,omitempty"`
	OverallScore        *float64   `json:"overall_score,omitempty"`
	Feedback            *string    `gorm:"type:text" json:"feedback,omitempty"`
	Strengths           []string   `gorm:"serializer:json" json:"strengths,omitempty"`
	Improvements        []string   `gorm:"serializer:json" json:"improvements,omitempty"`

	// Relations
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}
