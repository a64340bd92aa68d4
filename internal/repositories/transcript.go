package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interview-platform/internal/models"
)

type TranscriptRepository interface {
	Create(entry *models.TranscriptEntry) error
	FindBySession(sessionID uuid.UUID) ([]models.TranscriptEntry, error)
	CountBySession(sessionID uuid.UUID) (int64, error)
}

type transcriptRepository struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) TranscriptRepository {
	return &transcriptRepository{db: db}
}

func (r *transcriptRepository) Create(entry *models.TranscriptEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create transcript entry: %w", err)
	}
	return nil
}

func (r *transcriptRepository) FindBySession(sessionID uuid.UUID) ([]models.TranscriptEntry, error) {
	var entries []models.TranscriptEntry
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("created_at ASC, offset_ms ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find transcript entries: %w", err)
	}
	return entries, nil
}

func (r *transcriptRepository) CountBySession(sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.TranscriptEntry{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transcript entries: %w", err)
	}
	return count, nil
}
