package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"interview-platform/internal/models"
	"interview-platform/internal/services"
)

type SessionHandler struct {
	interview services.InterviewService
}

func NewSessionHandler(interview services.InterviewService) *SessionHandler {
	return &SessionHandler{interview: interview}
}

// HandleCreate handles POST /api/sessions/create
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.interview.CreateSession(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sessionResponse(session))
}

// HandleList handles GET /api/sessions
func (h *SessionHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	sessions, err := h.interview.ListSessions(limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]models.SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, sessionResponse(&sessions[i]))
	}

	return c.JSON(responses)
}

// HandleGet handles GET /api/sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return nil
	}

	session, err := h.interview.GetSession(sessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(sessionResponse(session))
}

// HandleStart handles POST /api/sessions/:id/start
func (h *SessionHandler) HandleStart(c *fiber.Ctx) error {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return nil
	}

	session, question, err := h.interview.StartSession(c.Context(), sessionID)
	if err != nil {
		return respondError(c, err)
	}

	response := fiber.Map{
		"session_id": session.ID.String(),
		"status":     string(session.Status),
	}
	if question != nil {
		response["first_question"] = models.GenerateQuestionResponse{
			QuestionID:    question.ID.String(),
			QuestionText:  question.QuestionText,
			QuestionOrder: question.QuestionOrder,
		}
	}

	return c.JSON(response)
}

// HandleEnd handles POST /api/sessions/:id/end
func (h *SessionHandler) HandleEnd(c *fiber.Ctx) error {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return nil
	}

	snapshot, err := h.interview.EndSession(c.Context(), sessionID)
	if err != nil {
		return respondError(c, err)
	}

	session, err := h.interview.GetSession(sessionID)
	if err != nil {
		return respondError(c, err)
	}

	duration := 0
	if session.DurationSeconds != nil {
		duration = *session.DurationSeconds
	}

	return c.JSON(fiber.Map{
		"session_id":       session.ID.String(),
		"status":           string(session.Status),
		"duration_seconds": duration,
		"analytics":        snapshot,
	})
}

// HandleAnalytics handles GET /api/sessions/:id/analytics
func (h *SessionHandler) HandleAnalytics(c *fiber.Ctx) error {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return nil
	}

	snapshot, err := h.interview.GetAnalytics(sessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(snapshot)
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
		return uuid.Nil, false
	}
	return sessionID, true
}

func sessionResponse(session *models.InterviewSession) models.SessionResponse {
	return models.SessionResponse{
		SessionID:       session.ID.String(),
		SubjectName:     session.SubjectName,
		Status:          string(session.Status),
		StartedAt:       session.StartedAt,
		EndedAt:         session.EndedAt,
		DurationSeconds: session.DurationSeconds,
	}
}
