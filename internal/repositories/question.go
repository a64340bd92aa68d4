package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interview-platform/internal/apperrors"
	"interview-platform/internal/models"
)

type QuestionRepository interface {
	Create(question *models.Question) error
	FindByID(id uuid.UUID) (*models.Question, error)
	FindBySession(sessionID uuid.UUID) ([]models.Question, error)
	CountBySession(sessionID uuid.UUID) (int64, error)
	SetAnswer(id uuid.UUID, data *AnswerUpdateData) error
}

type AnswerUpdateData struct {
	UserAnswer          string
	AnsweredAt          time.Time
	ResponseTimeSeconds float64
	Evaluation          *models.EvaluationResult
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *models.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *questionRepository) FindByID(id uuid.UUID) (*models.Question, error) {
	var question models.Question
	if err := r.db.Where("id = ?", id).First(&question).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.KindNotFound, "question %s not found", id)
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return &question, nil
}

func (r *questionRepository) FindBySession(sessionID uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("question_order ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepository) CountBySession(sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// SetAnswer persists the answer and its evaluation in one guarded
// update. The user_answer IS NULL predicate makes the database the
// arbiter between concurrent submissions for the same question.
func (r *questionRepository) SetAnswer(id uuid.UUID, data *AnswerUpdateData) error {
	updates := map[string]interface{}{
		"user_answer":           data.UserAnswer,
		"answered_at":           data.AnsweredAt,
		"response_time_seconds": data.ResponseTimeSeconds,
	}

	if data.Evaluation != nil {
		strengths, err := jsonColumn(data.Evaluation.Strengths)
		if err != nil {
			return err
		}
		improvements, err := jsonColumn(data.Evaluation.Improvements)
		if err != nil {
			return err
		}
		updates["correctness_score"] = data.Evaluation.CorrectnessScore
		updates["completeness_score"] = data.Evaluation.CompletenessScore
		updates["clarity_score"] = data.Evaluation.ClarityScore
		updates["overall_score"] = data.Evaluation.OverallScore
		updates["feedback"] = data.Evaluation.Feedback
		updates["strengths"] = strengths
		updates["improvements"] = improvements
	}

	result := r.db.Model(&models.Question{}).
		Where("id = ? AND user_answer IS NULL", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to set answer: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindAlreadyAnswered, "question %s already has an answer", id)
	}

	return nil
}
