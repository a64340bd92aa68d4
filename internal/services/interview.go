package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"interview-platform/internal/apperrors"
	"interview-platform/internal/models"
	"interview-platform/internal/repositories"
)

// InterviewService drives one interview session through its lifecycle:
// SCHEDULED -> IN_PROGRESS -> COMPLETED. Every request re-reads state
// from the store; nothing session-scoped is cached in memory.
type InterviewService interface {
	CreateSession(ctx context.Context, req *models.CreateSessionRequest) (*models.InterviewSession, error)
	GetSession(sessionID uuid.UUID) (*models.InterviewSession, error)
	ListSessions(limit, offset int) ([]models.InterviewSession, error)
	StartSession(ctx context.Context, sessionID uuid.UUID) (*models.InterviewSession, *models.Question, error)
	EndSession(ctx context.Context, sessionID uuid.UUID) (*models.AnalyticsSnapshot, error)
	GenerateQuestion(ctx context.Context, sessionID uuid.UUID, ordinal int) (*models.Question, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID uuid.UUID, answerText string) (*models.EvaluationResult, error)
	AddTranscript(sessionID uuid.UUID, speaker models.SpeakerRole, text string, offsetMs int64) (*models.TranscriptEntry, error)
	GetTranscript(sessionID uuid.UUID) ([]models.TranscriptEntry, error)
	GetQuestions(sessionID uuid.UUID) ([]models.Question, error)
	GetAnalytics(sessionID uuid.UUID) (*models.AnalyticsSnapshot, error)
}

type InterviewConfig struct {
	QuestionCount      int
	MaxRetrievedChunks int
	MaxContextTokens   int
}

type interviewService struct {
	sessionRepo    repositories.SessionRepository
	questionRepo   repositories.QuestionRepository
	transcriptRepo repositories.TranscriptRepository
	analyticsRepo  repositories.AnalyticsRepository
	docRepo        repositories.DocumentRepository
	proctorRepo    repositories.ProctoringRepository
	llm            LLMService
	vector         VectorService
	prompts        *PromptBuilder
	modelLock      *ModelLock
	cfg            InterviewConfig
}

func NewInterviewService(
	sessionRepo repositories.SessionRepository,
	questionRepo repositories.QuestionRepository,
	transcriptRepo repositories.TranscriptRepository,
	analyticsRepo repositories.AnalyticsRepository,
	docRepo repositories.DocumentRepository,
	proctorRepo repositories.ProctoringRepository,
	llm LLMService,
	vector VectorService,
	prompts *PromptBuilder,
	modelLock *ModelLock,
	cfg InterviewConfig,
) InterviewService {
	return &interviewService{
		sessionRepo:    sessionRepo,
		questionRepo:   questionRepo,
		transcriptRepo: transcriptRepo,
		analyticsRepo:  analyticsRepo,
		docRepo:        docRepo,
		proctorRepo:    proctorRepo,
		llm:            llm,
		vector:         vector,
		prompts:        prompts,
		modelLock:      modelLock,
		cfg:            cfg,
	}
}

// CreateSession implements InterviewService. resume_ref and
// reference_ref accept either a staged document id (binding the staged
// upload and its collection to the new session) or a raw file path.
func (s *interviewService) CreateSession(ctx context.Context, req *models.CreateSessionRequest) (*models.InterviewSession, error) {
	if req.SubjectName == "" {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "subject_name is required")
	}

	session := &models.InterviewSession{
		ID:          uuid.New(),
		SubjectName: req.SubjectName,
		Status:      models.StatusScheduled,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	resumeDoc, err := s.resolveDocumentRef(req.ResumeRef, models.DocumentResume)
	if err != nil {
		return nil, err
	}
	referenceDoc, err := s.resolveDocumentRef(req.ReferenceRef, models.DocumentReference)
	if err != nil {
		return nil, err
	}

	if resumeDoc != nil {
		session.ResumePath = &resumeDoc.FilePath
		session.ResumeCollection = &resumeDoc.CollectionName
	} else if req.ResumeRef != "" {
		session.ResumePath = &req.ResumeRef
	}

	if referenceDoc != nil {
		session.ReferenceDocPath = &referenceDoc.FilePath
		session.ReferenceCollection = &referenceDoc.CollectionName
	} else if req.ReferenceRef != "" {
		session.ReferenceDocPath = &req.ReferenceRef
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	if resumeDoc != nil {
		if err := s.docRepo.BindToSession(resumeDoc.ID, session.ID); err != nil {
			return nil, err
		}
	}
	if referenceDoc != nil {
		if err := s.docRepo.BindToSession(referenceDoc.ID, session.ID); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Created session %s for %s", session.ID, session.SubjectName)
	return session, nil
}

func (s *interviewService) resolveDocumentRef(ref string, kind models.DocumentKind) (*models.Document, error) {
	if ref == "" {
		return nil, nil
	}
	docID, err := uuid.Parse(ref)
	if err != nil {
		// Not a staged document id; caller passed a raw path.
		return nil, nil
	}
	doc, err := s.docRepo.FindByID(docID)
	if err != nil {
		return nil, err
	}
	if doc.Kind != kind {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "document %s is a %s, expected %s", docID, doc.Kind, kind)
	}
	return doc, nil
}

// GetSession implements InterviewService.
func (s *interviewService) GetSession(sessionID uuid.UUID) (*models.InterviewSession, error) {
	return s.sessionRepo.FindByID(sessionID)
}

// ListSessions implements InterviewService.
func (s *interviewService) ListSessions(limit, offset int) ([]models.InterviewSession, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.sessionRepo.List(limit, offset)
}

// StartSession implements InterviewService. Moves the session to
// IN_PROGRESS and generates question #1. A failed generation leaves the
// session started with no question row; generate-question with ordinal
// 1 remains valid for a retry.
func (s *interviewService) StartSession(ctx context.Context, sessionID uuid.UUID) (*models.InterviewSession, *models.Question, error) {
	if _, err := s.sessionRepo.FindByID(sessionID); err != nil {
		return nil, nil, err
	}

	if err := s.sessionRepo.MarkStarted(sessionID, time.Now()); err != nil {
		return nil, nil, err
	}

	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, nil, err
	}

	question, err := s.GenerateQuestion(ctx, sessionID, 1)
	if err != nil {
		return session, nil, err
	}

	log.Printf("🎬 Started session %s", sessionID)
	return session, question, nil
}

// GenerateQuestion implements InterviewService. Ordinals are strictly
// increasing per session: the requested ordinal must equal the count of
// existing questions plus one.
func (s *interviewService) GenerateQuestion(ctx context.Context, sessionID uuid.UUID, ordinal int) (*models.Question, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusInProgress {
		return nil, apperrors.New(apperrors.KindInvalidTransition, "session %s is %s, questions require IN_PROGRESS", sessionID, session.Status)
	}

	count, err := s.questionRepo.CountBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if ordinal != int(count)+1 {
		return nil, apperrors.New(apperrors.KindInvalidTransition, "question ordinal must be %d, got %d", count+1, ordinal)
	}

	prior, err := s.questionRepo.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}
	priorTexts := make([]string, 0, len(prior))
	for _, q := range prior {
		priorTexts = append(priorTexts, q.QuestionText)
	}

	resumeContext := s.retrieveContext(ctx, session.ResumeCollection, "candidate skills and experience")
	referenceContext := s.retrieveContext(ctx, session.ReferenceCollection, "interview topics and questions")

	systemPrompt, userPrompt := s.prompts.BuildQuestionPrompt(
		"", resumeContext, referenceContext, priorTexts, ordinal, s.cfg.QuestionCount,
	)

	s.modelLock.Acquire()
	questionText, err := s.llm.Complete(ctx, systemPrompt, userPrompt, 0.8)
	s.modelLock.Release()
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}

	question := &models.Question{
		ID:            uuid.New(),
		SessionID:     sessionID,
		QuestionText:  questionText,
		QuestionOrder: ordinal,
		AskedAt:       time.Now(),
	}

	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}

	log.Printf("❓ Generated question %d for session %s", ordinal, sessionID)
	return question, nil
}

// SubmitAnswer implements InterviewService. The evaluation runs before
// anything is persisted; a failed evaluation leaves the question
// unanswered so the caller can resubmit. The guarded update in the
// question repository arbitrates concurrent submissions.
func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID, questionID uuid.UUID, answerText string) (*models.EvaluationResult, error) {
	if answerText == "" {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "answer_text is required")
	}

	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, err
	}
	if question.SessionID != sessionID {
		return nil, apperrors.New(apperrors.KindNotFound, "question %s does not belong to session %s", questionID, sessionID)
	}
	if question.UserAnswer != nil {
		return nil, apperrors.New(apperrors.KindAlreadyAnswered, "question %s already has an answer", questionID)
	}

	answeredAt := time.Now()
	responseTime := answeredAt.Sub(question.AskedAt).Seconds()

	referenceContext := s.retrieveContext(ctx, session.ReferenceCollection, question.QuestionText)

	systemPrompt, userPrompt := s.prompts.BuildEvaluationPrompt(question.QuestionText, answerText, referenceContext)

	var evaluation models.EvaluationResult
	s.modelLock.Acquire()
	err = s.llm.CompleteJSON(ctx, systemPrompt, userPrompt, 0.3, func(data []byte) error {
		return decodeEvaluation(data, &evaluation)
	})
	s.modelLock.Release()
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate answer: %w", err)
	}

	err = s.questionRepo.SetAnswer(questionID, &repositories.AnswerUpdateData{
		UserAnswer:          answerText,
		AnsweredAt:          answeredAt,
		ResponseTimeSeconds: responseTime,
		Evaluation:          &evaluation,
	})
	if err != nil {
		return nil, err
	}

	// Transcripts follow the winning SetAnswer, so each question yields
	// exactly one interviewer/candidate pair.
	offsetMs := int64(0)
	if session.StartedAt != nil {
		offsetMs = answeredAt.Sub(*session.StartedAt).Milliseconds()
	}
	entries := []*models.TranscriptEntry{
		{ID: uuid.New(), SessionID: sessionID, Speaker: models.SpeakerInterviewer, TextContent: question.QuestionText, OffsetMs: offsetMs, CreatedAt: answeredAt},
		{ID: uuid.New(), SessionID: sessionID, Speaker: models.SpeakerCandidate, TextContent: answerText, OffsetMs: offsetMs, CreatedAt: answeredAt},
	}
	for _, entry := range entries {
		if err := s.transcriptRepo.Create(entry); err != nil {
			log.Printf("⚠️ Failed to append transcript entry: %v", err)
		}
	}

	log.Printf("📝 Answer evaluated for question %s (overall %.1f)", questionID, evaluation.OverallScore)
	return &evaluation, nil
}

// EndSession implements InterviewService. Idempotent: ending an
// already-COMPLETED session returns the stored snapshot unchanged.
func (s *interviewService) EndSession(ctx context.Context, sessionID uuid.UUID) (*models.AnalyticsSnapshot, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status == models.StatusCompleted {
		return s.waitForSnapshot(sessionID)
	}
	if session.Status != models.StatusInProgress {
		return nil, apperrors.New(apperrors.KindInvalidTransition, "session %s is %s, end requires IN_PROGRESS", sessionID, session.Status)
	}

	endedAt := time.Now()
	duration := 0
	if session.StartedAt != nil {
		duration = int(endedAt.Sub(*session.StartedAt).Seconds())
	}

	if err := s.sessionRepo.MarkEnded(sessionID, endedAt, duration); err != nil {
		// Lost the race against a concurrent end; serve its snapshot.
		if apperrors.Is(err, apperrors.KindInvalidTransition) {
			return s.waitForSnapshot(sessionID)
		}
		return nil, err
	}

	snapshot, err := s.computeAnalytics(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.analyticsRepo.Create(snapshot); err != nil {
		return nil, err
	}

	log.Printf("🏁 Ended session %s (%d questions)", sessionID, snapshot.QuestionsCount)
	return snapshot, nil
}

// waitForSnapshot serves the analytics of a session another caller
// completed. The winner writes its snapshot only after flipping the
// status, so the loser may land in the gap between the two; poll
// briefly instead of surfacing a spurious NOT_FOUND.
func (s *interviewService) waitForSnapshot(sessionID uuid.UUID) (*models.AnalyticsSnapshot, error) {
	var lastErr error
	for attempt := 0; attempt < 20; attempt++ {
		snapshot, err := s.analyticsRepo.FindBySession(sessionID)
		if err == nil {
			return snapshot, nil
		}
		if !apperrors.Is(err, apperrors.KindNotFound) {
			return nil, err
		}
		lastErr = err
		time.Sleep(50 * time.Millisecond)
	}
	return nil, lastErr
}

func (s *interviewService) computeAnalytics(sessionID uuid.UUID) (*models.AnalyticsSnapshot, error) {
	questions, err := s.questionRepo.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}
	transcriptCount, err := s.transcriptRepo.CountBySession(sessionID)
	if err != nil {
		return nil, err
	}
	proctorCount, err := s.proctorRepo.CountBySession(sessionID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.AnalyticsSnapshot{
		ID:                     uuid.New(),
		SessionID:              sessionID,
		QuestionsCount:         len(questions),
		TranscriptEntriesCount: int(transcriptCount),
		ProctoringFlagsCount:   int(proctorCount),
		GeneratedAt:            time.Now(),
	}

	var overall, correctness, completeness, clarity, responseTime float64
	answered := 0
	for _, q := range questions {
		if q.UserAnswer == nil {
			continue
		}
		answered++
		if q.OverallScore != nil {
			overall += *q.OverallScore
		}
		if q.CorrectnessScore != nil {
			correctness += *q.CorrectnessScore
		}
		if q.CompletenessScore != nil {
			completeness += *q.CompletenessScore
		}
		if q.ClarityScore != nil {
			clarity += *q.ClarityScore
		}
		if q.ResponseTimeSeconds != nil {
			responseTime += *q.ResponseTimeSeconds
		}
	}

	snapshot.QuestionsAnswered = answered
	if answered > 0 {
		n := float64(answered)
		snapshot.AvgOverallScore = ptrFloat(overall / n)
		snapshot.AvgCorrectnessScore = ptrFloat(correctness / n)
		snapshot.AvgCompletenessScore = ptrFloat(completeness / n)
		snapshot.AvgClarityScore = ptrFloat(clarity / n)
		snapshot.AvgResponseTimeSeconds = ptrFloat(responseTime / n)
	}

	return snapshot, nil
}

// AddTranscript implements InterviewService.
func (s *interviewService) AddTranscript(sessionID uuid.UUID, speaker models.SpeakerRole, text string, offsetMs int64) (*models.TranscriptEntry, error) {
	if speaker != models.SpeakerInterviewer && speaker != models.SpeakerCandidate {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "speaker must be interviewer or candidate, got %q", speaker)
	}
	if text == "" {
		return nil, apperrors.New(apperrors.KindInvalidConfiguration, "text is required")
	}
	if _, err := s.sessionRepo.FindByID(sessionID); err != nil {
		return nil, err
	}

	entry := &models.TranscriptEntry{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Speaker:     speaker,
		TextContent: text,
		OffsetMs:    offsetMs,
		CreatedAt:   time.Now(),
	}
	if err := s.transcriptRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetTranscript implements InterviewService.
func (s *interviewService) GetTranscript(sessionID uuid.UUID) ([]models.TranscriptEntry, error) {
	if _, err := s.sessionRepo.FindByID(sessionID); err != nil {
		return nil, err
	}
	return s.transcriptRepo.FindBySession(sessionID)
}

// GetQuestions implements InterviewService.
func (s *interviewService) GetQuestions(sessionID uuid.UUID) ([]models.Question, error) {
	if _, err := s.sessionRepo.FindByID(sessionID); err != nil {
		return nil, err
	}
	return s.questionRepo.FindBySession(sessionID)
}

// GetAnalytics implements InterviewService.
func (s *interviewService) GetAnalytics(sessionID uuid.UUID) (*models.AnalyticsSnapshot, error) {
	if _, err := s.sessionRepo.FindByID(sessionID); err != nil {
		return nil, err
	}
	return s.analyticsRepo.FindBySession(sessionID)
}

// retrieveContext fetches similarity context scoped to one collection.
// Sessions without the collection, or collections that went missing,
// degrade to an empty context instead of failing the whole operation.
func (s *interviewService) retrieveContext(ctx context.Context, collection *string, query string) string {
	if collection == nil || *collection == "" {
		return "Not provided."
	}

	chunks, err := s.vector.Retrieve(ctx, *collection, query, s.cfg.MaxRetrievedChunks)
	if err != nil {
		log.Printf("⚠️ Failed to retrieve context from %s: %v", *collection, err)
		return "No relevant context found."
	}

	return FormatContext(chunks, s.cfg.MaxRetrievedChunks, s.cfg.MaxContextTokens)
}

// decodeEvaluation unmarshals model output into the fixed evaluation
// schema and rejects missing or out-of-range fields.
func decodeEvaluation(data []byte, out *models.EvaluationResult) error {
	var raw struct {
		CorrectnessScore  *float64 `json:"correctness_score"`
		CompletenessScore *float64 `json:"completeness_score"`
		ClarityScore      *float64 `json:"clarity_score"`
		OverallScore      *float64 `json:"overall_score"`
		Feedback          *string  `json:"feedback"`
		Strengths         []string `json:"strengths"`
		Improvements      []string `json:"improvements"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	scores := map[string]*float64{
		"correctness_score":  raw.CorrectnessScore,
		"completeness_score": raw.CompletenessScore,
		"clarity_score":      raw.ClarityScore,
		"overall_score":      raw.OverallScore,
	}
	for name, score := range scores {
		if score == nil {
			return fmt.Errorf("missing required field %q", name)
		}
		if *score < 0 || *score > 10 {
			return fmt.Errorf("field %q out of range: %v", name, *score)
		}
	}
	if raw.Feedback == nil {
		return fmt.Errorf("missing required field \"feedback\"")
	}

	out.CorrectnessScore = *raw.CorrectnessScore
	out.CompletenessScore = *raw.CompletenessScore
	out.ClarityScore = *raw.ClarityScore
	out.OverallScore = *raw.OverallScore
	out.Feedback = *raw.Feedback
	out.Strengths = raw.Strengths
	out.Improvements = raw.Improvements
	if out.Strengths == nil {
		out.Strengths = []string{}
	}
	if out.Improvements == nil {
		out.Improvements = []string{}
	}

	return nil
}

func ptrFloat(v float64) *float64 {
	return &v
}
