package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interview-platform/internal/apperrors"
	"interview-platform/internal/models"
)

type AnalyticsRepository interface {
	Create(snapshot *models.AnalyticsSnapshot) error
	FindBySession(sessionID uuid.UUID) (*models.AnalyticsSnapshot, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Create(snapshot *models.AnalyticsSnapshot) error {
	if err := r.db.Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to create analytics snapshot: %w", err)
	}
	return nil
}

func (r *analyticsRepository) FindBySession(sessionID uuid.UUID) (*models.AnalyticsSnapshot, error) {
	var snapshot models.AnalyticsSnapshot
	if err := r.db.Where("session_id = ?", sessionID).First(&snapshot).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.KindNotFound, "analytics for session %s not found", sessionID)
		}
		return nil, fmt.Errorf("failed to find analytics snapshot: %w", err)
	}
	return &snapshot, nil
}
