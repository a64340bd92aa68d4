package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interview-platform/internal/apperrors"
	"interview-platform/internal/models"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByID(id uuid.UUID) (*models.Document, error)
	FindBySessionAndKind(sessionID uuid.UUID, kind models.DocumentKind) (*models.Document, error)
	BindToSession(id, sessionID uuid.UUID) error
	UpdateIngestResult(id uuid.UUID, collectionName string, chunkCount int) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(document *models.Document) error {
	if err := r.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.KindNotFound, "document %s not found", id)
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &doc, nil
}

func (r *documentRepository) FindBySessionAndKind(sessionID uuid.UUID, kind models.DocumentKind) (*models.Document, error) {
	var doc models.Document
	err := r.db.
		Where("session_id = ? AND kind = ?", sessionID, kind).
		Order("created_at DESC").
		First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.KindNotFound, "no %s document for session %s", kind, sessionID)
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &doc, nil
}

// BindToSession associates a staged upload with a session.
func (r *documentRepository) BindToSession(id, sessionID uuid.UUID) error {
	result := r.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"session_id": sessionID,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to bind document to session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "document %s not found", id)
	}

	return nil
}

func (r *documentRepository) UpdateIngestResult(id uuid.UUID, collectionName string, chunkCount int) error {
	result := r.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"collection_name": collectionName,
			"chunk_count":     chunkCount,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update document ingest result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "document %s not found", id)
	}

	return nil
}
