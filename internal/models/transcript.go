package models

import (
	"time"

	"github.com/google/uuid"
)

type SpeakerRole string

const (
	SpeakerInterviewer SpeakerRole = "interviewer"
	SpeakerCandidate   SpeakerRole = "candidate"
)

type TranscriptEntry struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"transcript_id"`
	SessionID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"session_id"`
	Speaker     SpeakerRole `gorm:"not null" json:"speaker"`
	TextContent string      `gorm:"type:text;not null" json:"text"`
	OffsetMs    int64       `gorm:"not null;default:0" json:"timestamp_offset_ms"`
	CreatedAt   time.Time   `gorm:"type:timestamp;default:now()" json:"timestamp"`

	// Relations
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"-"`
}

func (TranscriptEntry) TableName() string {
	return "session_transcripts"
}
