package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"interview-platform/internal/models"
	"interview-platform/internal/services"
)

type SpeechHandler struct {
	speech  services.SpeechService
	storage services.StorageService
}

func NewSpeechHandler(speech services.SpeechService, storage services.StorageService) *SpeechHandler {
	return &SpeechHandler{speech: speech, storage: storage}
}

// HandleTranscribe handles POST /api/speech/transcribe. The audio file
// is persisted only for the duration of the whisper call.
func (h *SpeechHandler) HandleTranscribe(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio is required",
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".wav" && ext != ".mp3" && ext != ".ogg" && ext != ".webm" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unsupported audio format: %s", ext),
		})
	}

	filename, audioPath, err := h.storage.SaveFile(fileHeader, "audio", []string{ext})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save audio: %v", err),
		})
	}
	defer h.storage.DeleteFile(filename)

	text, err := h.speech.Transcribe(c.Context(), audioPath)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.TranscribeResponse{Text: text})
}

// HandleSynthesize handles POST /api/speech/synthesize
func (h *SpeechHandler) HandleSynthesize(c *fiber.Ctx) error {
	var req models.SynthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	outputPath := h.storage.GetFilePath(fmt.Sprintf("tts_%s.wav", uuid.New().String()))

	if err := h.speech.Synthesize(c.Context(), req.Text, outputPath); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SynthesizeResponse{AudioPath: outputPath})
}
