package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentKind string

const (
	DocumentResume    DocumentKind = "resume"
	DocumentReference DocumentKind = "reference"
)

// Document records an uploaded file and the vector collection built from
// it. SessionID stays nil while the upload is staged; session create
// binds staged documents to the new session.
type Document struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID        *uuid.UUID   `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Kind             DocumentKind `gorm:"not null" json:"kind"`
	Filename         string       `gorm:"type:text" json:"filename"`
	OriginalFileName string       `gorm:"type:text" json:"original_filename"`
	FilePath         string       `gorm:"type:text" json:"file_path"`
	CollectionName   string       `gorm:"type:text" json:"collection_name"`
	ChunkCount       int          `gorm:"not null;default:0" json:"chunk_count"`
	CreatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
