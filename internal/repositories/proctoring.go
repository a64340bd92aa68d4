package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interview-platform/internal/models"
)

type ProctoringRepository interface {
	Create(event *models.ProctoringEvent) error
	FindBySession(sessionID uuid.UUID) ([]models.ProctoringEvent, error)
	CountBySession(sessionID uuid.UUID) (int64, error)
}

type proctoringRepository struct {
	db *gorm.DB
}

func NewProctoringRepository(db *gorm.DB) ProctoringRepository {
	return &proctoringRepository{db: db}
}

func (r *proctoringRepository) Create(event *models.ProctoringEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create proctoring event: %w", err)
	}
	return nil
}

func (r *proctoringRepository) FindBySession(sessionID uuid.UUID) ([]models.ProctoringEvent, error) {
	var events []models.ProctoringEvent
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find proctoring events: %w", err)
	}
	return events, nil
}

func (r *proctoringRepository) CountBySession(sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProctoringEvent{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count proctoring events: %w", err)
	}
	return count, nil
}
