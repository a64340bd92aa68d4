package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"interview-platform/internal/models"
	"interview-platform/internal/services"
)

type InterviewHandler struct {
	interview services.InterviewService
}

func NewInterviewHandler(interview services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interview: interview}
}

// HandleGenerateQuestion handles POST /api/interview/generate-question
func (h *InterviewHandler) HandleGenerateQuestion(c *fiber.Ctx) error {
	var req models.GenerateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session_id format",
		})
	}

	question, err := h.interview.GenerateQuestion(c.Context(), sessionID, req.QuestionNumber)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.GenerateQuestionResponse{
		QuestionID:    question.ID.String(),
		QuestionText:  question.QuestionText,
		QuestionOrder: question.QuestionOrder,
	})
}

// HandleSubmitAnswer handles POST /api/interview/submit-answer
func (h *InterviewHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session_id format",
		})
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question_id format",
		})
	}

	evaluation, err := h.interview.SubmitAnswer(c.Context(), sessionID, questionID, req.AnswerText)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SubmitAnswerResponse{
		QuestionID: questionID.String(),
		Evaluation: evaluation,
	})
}

// HandleAddTranscript handles POST /api/interview/add-transcript
func (h *InterviewHandler) HandleAddTranscript(c *fiber.Ctx) error {
	var req models.AddTranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session_id format",
		})
	}

	entry, err := h.interview.AddTranscript(sessionID, models.SpeakerRole(req.Speaker), req.Text, req.OffsetMs)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleGetTranscript handles GET /api/interview/:id/transcript
func (h *InterviewHandler) HandleGetTranscript(c *fiber.Ctx) error {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return nil
	}

	entries, err := h.interview.GetTranscript(sessionID)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]models.TranscriptEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, models.TranscriptEntryResponse{
			Speaker:   string(entry.Speaker),
			Text:      entry.TextContent,
			OffsetMs:  entry.OffsetMs,
			Timestamp: entry.CreatedAt,
		})
	}

	return c.JSON(responses)
}

// HandleGetQuestions handles GET /api/interview/:id/questions
func (h *InterviewHandler) HandleGetQuestions(c *fiber.Ctx) error {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return nil
	}

	questions, err := h.interview.GetQuestions(sessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(questions)
}
