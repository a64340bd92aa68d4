package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusScheduled  SessionStatus = "SCHEDULED"
	StatusInProgress SessionStatus = "IN_PROGRESS"
	StatusCompleted  SessionStatus = "COMPLETED"
)

type InterviewSession struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"session_id"`
	SubjectName         string        `gorm:"type:text;not null" json:"subject_name"`
	Status              SessionStatus `gorm:"not null;default:'SCHEDULED'" json:"status"`
	ResumePath          *string       `gorm:"type:text" json:"resume_path,omitempty"`
	ReferenceDocPath    *string       `gorm:"type:text" json:"reference_doc_path,omitempty"`
	ResumeCollection    *string       `gorm:"type:text" json:"-"`
	ReferenceCollection *string       `gorm:"type:text" json:"-"`
	StartedAt           *time.Time    `gorm:"type:timestamp" json:"started_at,omitempty"`
	EndedAt             *time.Time    `gorm:"type:timestamp" json:"ended_at,omitempty"`
	DurationSeconds     *int          `json:"duration_seconds,omitempty"`
	CreatedAt           time.Time     `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}
