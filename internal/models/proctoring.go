package models

import (
	"time"

	"github.com/google/uuid"
)

type ProctoringEventType string

const (
	EventMultiplePersons ProctoringEventType = "MULTIPLE_PERSONS"
	EventNoFace          ProctoringEventType = "NO_FACE"
	EventLookingAway     ProctoringEventType = "LOOKING_AWAY"
	EventTabSwitch       ProctoringEventType = "TAB_SWITCH"
)

type ProctoringEvent struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"event_id"`
	SessionID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"session_id"`
	EventType       ProctoringEventType `gorm:"not null" json:"event_type"`
	ConfidenceScore *float64            `json:"confidence_score,omitempty"`
	OffsetMs        int64               `gorm:"not null;default:0" json:"timestamp_offset_ms"`
	CreatedAt       time.Time           `gorm:"type:timestamp;default:now()" json:"created_at"`

	// Relations
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"-"`
}

func (ProctoringEvent) TableName() string {
	return "proctoring_events"
}
