package handlers

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"interview-platform/internal/models"
	"interview-platform/internal/repositories"
	"interview-platform/internal/services"
)

type ProctoringHandler struct {
	worker      services.ProctorWorker
	proctorRepo repositories.ProctoringRepository
}

func NewProctoringHandler(worker services.ProctorWorker, proctorRepo repositories.ProctoringRepository) *ProctoringHandler {
	return &ProctoringHandler{worker: worker, proctorRepo: proctorRepo}
}

// HandleReportFrame handles POST /api/proctoring/frame. Accepting a
// frame only means it entered the queue; analysis happens in the
// background worker.
func (h *ProctoringHandler) HandleReportFrame(c *fiber.Ctx) error {
	sessionIDRaw := c.FormValue("session_id")
	sessionID, err := uuid.Parse(sessionIDRaw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session_id format",
		})
	}

	offsetMs, err := parseOffsetMs(c.FormValue("timestamp_offset_ms"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid timestamp_offset_ms",
		})
	}

	fileHeader, err := c.FormFile("frame")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "frame is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to open frame",
		})
	}
	defer file.Close()

	frame, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read frame",
		})
	}

	queued := h.worker.EnqueueFrame(sessionID, frame, offsetMs)

	return c.Status(fiber.StatusAccepted).JSON(models.ReportFrameResponse{
		SessionID: sessionID.String(),
		Queued:    queued,
	})
}

// HandleGetEvents handles GET /api/proctoring/:id/events
func (h *ProctoringHandler) HandleGetEvents(c *fiber.Ctx) error {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return nil
	}

	events, err := h.proctorRepo.FindBySession(sessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(events)
}

func parseOffsetMs(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
