package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"interview-platform/internal/models"
	"interview-platform/internal/repositories"
	"interview-platform/internal/services"
)

type UploadHandler struct {
	docRepo         repositories.DocumentRepository
	storageService  services.StorageService
	documentService services.DocumentService
	maxFileSize     int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	documentService services.DocumentService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:         docRepo,
		storageService:  storageService,
		documentService: documentService,
		maxFileSize:     maxFileSize,
	}
}

// HandleUploadResume handles POST /api/upload/resume
func (h *UploadHandler) HandleUploadResume(c *fiber.Ctx) error {
	doc, text, err := h.processUpload(c, models.DocumentResume, []string{".pdf", ".txt"})
	if err != nil || doc == nil {
		return err
	}

	parsed := h.documentService.ParseResume(text)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":         true,
		"document_id":     doc.ID.String(),
		"file_path":       doc.FilePath,
		"collection_name": doc.CollectionName,
		"chunk_count":     doc.ChunkCount,
		"parsed_data":     parsed,
	})
}

// HandleUploadReference handles POST /api/upload/reference
func (h *UploadHandler) HandleUploadReference(c *fiber.Ctx) error {
	doc, _, err := h.processUpload(c, models.DocumentReference, []string{".pdf", ".txt", ".md"})
	if err != nil || doc == nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":         true,
		"document_id":     doc.ID.String(),
		"file_path":       doc.FilePath,
		"collection_name": doc.CollectionName,
		"chunk_count":     doc.ChunkCount,
	})
}

// processUpload saves the file, records the document row (staged when
// no session_id accompanies the upload) and ingests the text into the
// document's own vector collection.
func (h *UploadHandler) processUpload(c *fiber.Ctx, kind models.DocumentKind, allowedExts []string) (*models.Document, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	var sessionID *uuid.UUID
	if raw := c.FormValue("session_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid session_id format",
			})
		}
		sessionID = &parsed
	}

	filename, filePath, err := h.storageService.SaveFile(file, string(kind), allowedExts)
	if err != nil {
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}

	text, err := h.documentService.ExtractText(filePath)
	if err != nil {
		h.storageService.DeleteFile(filename)
		return nil, "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract text: %v", err),
		})
	}

	doc := &models.Document{
		ID:               uuid.New(),
		SessionID:        sessionID,
		Kind:             kind,
		Filename:         filename,
		OriginalFileName: file.Filename,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	// Collections are keyed per document: by session when the upload is
	// already bound, by the staged document id otherwise.
	owner := doc.ID.String()
	if sessionID != nil {
		owner = sessionID.String()
	}
	doc.CollectionName = fmt.Sprintf("%s_%s", kind, owner)

	if err := h.docRepo.Create(doc); err != nil {
		h.storageService.DeleteFile(filename)
		return nil, "", respondError(c, err)
	}

	chunkCount, err := h.documentService.Ingest(c.Context(), doc.CollectionName, doc.ID.String(), text)
	if err != nil {
		return nil, "", respondError(c, err)
	}

	if err := h.docRepo.UpdateIngestResult(doc.ID, doc.CollectionName, chunkCount); err != nil {
		return nil, "", respondError(c, err)
	}
	doc.ChunkCount = chunkCount

	return doc, text, nil
}
