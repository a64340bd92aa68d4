package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interview-platform/internal/apperrors"
	"interview-platform/internal/models"
)

type SessionRepository interface {
	Create(session *models.InterviewSession) error
	FindByID(id uuid.UUID) (*models.InterviewSession, error)
	List(limit, offset int) ([]models.InterviewSession, error)
	MarkStarted(id uuid.UUID, startedAt time.Time) error
	MarkEnded(id uuid.UUID, endedAt time.Time, durationSeconds int) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *models.InterviewSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(id uuid.UUID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.KindNotFound, "session %s not found", id)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) List(limit, offset int) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// MarkStarted moves a session to IN_PROGRESS. The status predicate in
// the WHERE clause is the arbiter for concurrent start calls.
func (r *sessionRepository) MarkStarted(id uuid.UUID, startedAt time.Time) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ? AND status = ?", id, models.StatusScheduled).
		Updates(map[string]interface{}{
			"status":     models.StatusInProgress,
			"started_at": startedAt,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to start session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindInvalidTransition, "session %s is not in SCHEDULED state", id)
	}

	return nil
}

func (r *sessionRepository) MarkEnded(id uuid.UUID, endedAt time.Time, durationSeconds int) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ? AND status = ?", id, models.StatusInProgress).
		Updates(map[string]interface{}{
			"status":           models.StatusCompleted,
			"ended_at":         endedAt,
			"duration_seconds": durationSeconds,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to end session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindInvalidTransition, "session %s is not in IN_PROGRESS state", id)
	}

	return nil
}
