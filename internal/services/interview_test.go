package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"interview-platform/internal/apperrors"
	"interview-platform/internal/models"
	"interview-platform/internal/repositories"
)

// In-memory repository fakes mirroring the guarded-update semantics of
// the real ones: status predicates on session transitions, the
// unanswered predicate on SetAnswer.

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.InterviewSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*models.InterviewSession{}}
}

func (r *fakeSessionRepo) Create(s *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(id uuid.UUID) (*models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "session %s not found", id)
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) List(limit, offset int) ([]models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InterviewSession
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) MarkStarted(id uuid.UUID, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Status != models.StatusScheduled {
		return apperrors.New(apperrors.KindInvalidTransition, "session %s is not in SCHEDULED state", id)
	}
	s.Status = models.StatusInProgress
	s.StartedAt = &startedAt
	return nil
}

func (r *fakeSessionRepo) MarkEnded(id uuid.UUID, endedAt time.Time, durationSeconds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Status != models.StatusInProgress {
		return apperrors.New(apperrors.KindInvalidTransition, "session %s is not in IN_PROGRESS state", id)
	}
	s.Status = models.StatusCompleted
	s.EndedAt = &endedAt
	s.DurationSeconds = &durationSeconds
	return nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[uuid.UUID]*models.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: map[uuid.UUID]*models.Question{}}
}

func (r *fakeQuestionRepo) Create(q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *q
	r.questions[q.ID] = &cp
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uuid.UUID) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "question %s not found", id)
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuestionRepo) FindBySession(sessionID uuid.UUID) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Question
	for _, q := range r.questions {
		if q.SessionID == sessionID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionOrder < out[j].QuestionOrder })
	return out, nil
}

func (r *fakeQuestionRepo) CountBySession(sessionID uuid.UUID) (int64, error) {
	qs, _ := r.FindBySession(sessionID)
	return int64(len(qs)), nil
}

func (r *fakeQuestionRepo) SetAnswer(id uuid.UUID, data *repositories.AnswerUpdateData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok || q.UserAnswer != nil {
		return apperrors.New(apperrors.KindAlreadyAnswered, "question %s already has an answer", id)
	}
	answer := data.UserAnswer
	answeredAt := data.AnsweredAt
	responseTime := data.ResponseTimeSeconds
	q.UserAnswer = &answer
	q.AnsweredAt = &answeredAt
	q.ResponseTimeSeconds = &responseTime
	if data.Evaluation != nil {
		q.CorrectnessScore = ptrFloat(data.Evaluation.CorrectnessScore)
		q.CompletenessScore = ptrFloat(data.Evaluation.CompletenessScore)
		q.ClarityScore = ptrFloat(data.Evaluation.ClarityScore)
		q.OverallScore = ptrFloat(data.Evaluation.OverallScore)
		q.Feedback = &data.Evaluation.Feedback
		q.Strengths = data.Evaluation.Strengths
		q.Improvements = data.Evaluation.Improvements
	}
	return nil
}

type fakeTranscriptRepo struct {
	mu      sync.Mutex
	entries []models.TranscriptEntry
}

func (r *fakeTranscriptRepo) Create(e *models.TranscriptEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeTranscriptRepo) FindBySession(sessionID uuid.UUID) ([]models.TranscriptEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TranscriptEntry
	for _, e := range r.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTranscriptRepo) CountBySession(sessionID uuid.UUID) (int64, error) {
	entries, _ := r.FindBySession(sessionID)
	return int64(len(entries)), nil
}

type fakeAnalyticsRepo struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID]*models.AnalyticsSnapshot
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{snapshots: map[uuid.UUID]*models.AnalyticsSnapshot{}}
}

func (r *fakeAnalyticsRepo) Create(s *models.AnalyticsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.snapshots[s.SessionID] = &cp
	return nil
}

func (r *fakeAnalyticsRepo) FindBySession(sessionID uuid.UUID) (*models.AnalyticsSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[sessionID]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "no analytics for session %s", sessionID)
	}
	cp := *s
	return &cp, nil
}

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[uuid.UUID]*models.Document{}}
}

func (r *fakeDocumentRepo) Create(d *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.docs[d.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "document %s not found", id)
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) FindBySessionAndKind(sessionID uuid.UUID, kind models.DocumentKind) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.SessionID != nil && *d.SessionID == sessionID && d.Kind == kind {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "no %s document for session %s", kind, sessionID)
}

func (r *fakeDocumentRepo) BindToSession(id, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "document %s not found", id)
	}
	d.SessionID = &sessionID
	return nil
}

func (r *fakeDocumentRepo) UpdateIngestResult(id uuid.UUID, collectionName string, chunkCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "document %s not found", id)
	}
	d.CollectionName = collectionName
	d.ChunkCount = chunkCount
	return nil
}

type fakeProctorRepo struct {
	mu     sync.Mutex
	events []models.ProctoringEvent
}

func (r *fakeProctorRepo) Create(e *models.ProctoringEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *fakeProctorRepo) FindBySession(sessionID uuid.UUID) ([]models.ProctoringEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProctoringEvent
	for _, e := range r.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeProctorRepo) CountBySession(sessionID uuid.UUID) (int64, error) {
	events, _ := r.FindBySession(sessionID)
	return int64(len(events)), nil
}

// fakeLLM returns scripted question texts and a canned evaluation.
type fakeLLM struct {
	mu            sync.Mutex
	completeCalls int
	evaluationDoc string
	analyzeResp   string
	completeErr   error
	jsonErr       error
	analyzeErr    error
}

func (f *fakeLLM) Complete(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return "", f.completeErr
	}
	f.completeCalls++
	return fmt.Sprintf("Generated question #%d?", f.completeCalls), nil
}

func (f *fakeLLM) CompleteJSON(ctx context.Context, systemPrompt, prompt string, temperature float32, decode func([]byte) error) error {
	if f.jsonErr != nil {
		return f.jsonErr
	}
	doc := f.evaluationDoc
	if doc == "" {
		doc = `{"correctness_score":8,"completeness_score":7,"clarity_score":9,"overall_score":8,"feedback":"Solid answer.","strengths":["clear"],"improvements":["more depth"]}`
	}
	return decode([]byte(doc))
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func (f *fakeLLM) AnalyzeImage(ctx context.Context, imageBase64, prompt string) (string, error) {
	if f.analyzeErr != nil {
		return "", f.analyzeErr
	}
	return f.analyzeResp, nil
}

func (f *fakeLLM) CheckHealth(ctx context.Context) bool { return true }

type fakeVector struct {
	chunks map[string][]RetrievedChunk
}

func (f *fakeVector) StoreDocument(ctx context.Context, collectionName, documentID string, chunks []string) error {
	return nil
}

func (f *fakeVector) Retrieve(ctx context.Context, collectionName, queryText string, topK int) ([]RetrievedChunk, error) {
	chunks, ok := f.chunks[collectionName]
	if !ok {
		return nil, apperrors.New(apperrors.KindCollectionNotFound, "collection %s not found", collectionName)
	}
	topK = clampTopK(topK, uint64(len(chunks)))
	return chunks[:topK], nil
}

func (f *fakeVector) DeleteCollection(ctx context.Context, collectionName string) error { return nil }

func (f *fakeVector) CheckHealth(ctx context.Context) bool { return true }

type testEnv struct {
	svc         InterviewService
	sessionRepo *fakeSessionRepo
	questions   *fakeQuestionRepo
	transcripts *fakeTranscriptRepo
	analytics   *fakeAnalyticsRepo
	docs        *fakeDocumentRepo
	proctor     *fakeProctorRepo
	llm         *fakeLLM
	vector      *fakeVector
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sessionRepo: newFakeSessionRepo(),
		questions:   newFakeQuestionRepo(),
		transcripts: &fakeTranscriptRepo{},
		analytics:   newFakeAnalyticsRepo(),
		docs:        newFakeDocumentRepo(),
		proctor:     &fakeProctorRepo{},
		llm:         &fakeLLM{},
		vector: &fakeVector{chunks: map[string][]RetrievedChunk{
			"resume_x":    {{Text: "Go backend experience"}},
			"reference_x": {{Text: "concurrency primitives"}},
		}},
	}
	env.svc = NewInterviewService(
		env.sessionRepo,
		env.questions,
		env.transcripts,
		env.analytics,
		env.docs,
		env.proctor,
		env.llm,
		env.vector,
		NewPromptBuilder(nil),
		NewModelLock(),
		InterviewConfig{QuestionCount: 8, MaxRetrievedChunks: 3, MaxContextTokens: 2000},
	)
	return env
}

func (env *testEnv) createStartedSession(t *testing.T) (*models.InterviewSession, *models.Question) {
	t.Helper()
	ctx := context.Background()

	session, err := env.svc.CreateSession(ctx, &models.CreateSessionRequest{SubjectName: "Ada"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	started, question, err := env.svc.StartSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	return started, question
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, q1 := env.createStartedSession(t)
	if session.Status != models.StatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", session.Status)
	}
	if q1 == nil || q1.QuestionOrder != 1 {
		t.Fatalf("expected first question, got %+v", q1)
	}

	eval, err := env.svc.SubmitAnswer(ctx, session.ID, q1.ID, "Channels coordinate goroutines.")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if eval.OverallScore != 8 {
		t.Errorf("overall score = %v", eval.OverallScore)
	}

	q2, err := env.svc.GenerateQuestion(ctx, session.ID, 2)
	if err != nil {
		t.Fatalf("GenerateQuestion failed: %v", err)
	}
	if q2.QuestionOrder != 2 {
		t.Errorf("question order = %d", q2.QuestionOrder)
	}

	snapshot, err := env.svc.EndSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if snapshot.QuestionsCount != 2 {
		t.Errorf("questions_count = %d", snapshot.QuestionsCount)
	}
	if snapshot.QuestionsAnswered != 1 {
		t.Errorf("questions_answered = %d", snapshot.QuestionsAnswered)
	}
	if snapshot.TranscriptEntriesCount != 2 {
		t.Errorf("transcript_entries_count = %d", snapshot.TranscriptEntriesCount)
	}
	if snapshot.AvgOverallScore == nil || *snapshot.AvgOverallScore != 8 {
		t.Errorf("avg_overall_score = %v", snapshot.AvgOverallScore)
	}

	final, err := env.svc.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if final.Status != models.StatusCompleted {
		t.Errorf("final status = %s", final.Status)
	}
}

func TestGenerateQuestionOrdinalGuard(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, _ := env.createStartedSession(t)

	_, err := env.svc.GenerateQuestion(ctx, session.ID, 3)
	if !apperrors.Is(err, apperrors.KindInvalidTransition) {
		t.Errorf("expected INVALID_TRANSITION for skipped ordinal, got %v", err)
	}

	// Repeating an already-used ordinal fails the same way.
	_, err = env.svc.GenerateQuestion(ctx, session.ID, 1)
	if !apperrors.Is(err, apperrors.KindInvalidTransition) {
		t.Errorf("expected INVALID_TRANSITION for repeated ordinal, got %v", err)
	}
}

func TestGenerateQuestionRequiresInProgress(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, err := env.svc.CreateSession(ctx, &models.CreateSessionRequest{SubjectName: "Ada"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = env.svc.GenerateQuestion(ctx, session.ID, 1)
	if !apperrors.Is(err, apperrors.KindInvalidTransition) {
		t.Errorf("expected INVALID_TRANSITION on SCHEDULED session, got %v", err)
	}
}

func TestSubmitAnswerTwice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, q1 := env.createStartedSession(t)

	first, err := env.svc.SubmitAnswer(ctx, session.ID, q1.ID, "first answer")
	if err != nil {
		t.Fatalf("first SubmitAnswer failed: %v", err)
	}

	_, err = env.svc.SubmitAnswer(ctx, session.ID, q1.ID, "second answer")
	if !apperrors.Is(err, apperrors.KindAlreadyAnswered) {
		t.Fatalf("expected ALREADY_ANSWERED, got %v", err)
	}

	// The stored answer and scores are untouched by the losing submit.
	stored, err := env.questions.FindByID(q1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.UserAnswer == nil || *stored.UserAnswer != "first answer" {
		t.Errorf("stored answer = %v", stored.UserAnswer)
	}
	if stored.OverallScore == nil || *stored.OverallScore != first.OverallScore {
		t.Errorf("stored overall score changed: %v", stored.OverallScore)
	}
}

func TestSubmitAnswerEvaluationFailureLeavesUnanswered(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, q1 := env.createStartedSession(t)

	env.llm.jsonErr = apperrors.New(apperrors.KindMalformedModelOutput, "model output failed validation after retry")
	if _, err := env.svc.SubmitAnswer(ctx, session.ID, q1.ID, "answer"); err == nil {
		t.Fatal("expected evaluation failure")
	}

	stored, err := env.questions.FindByID(q1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.UserAnswer != nil {
		t.Errorf("failed evaluation must leave question unanswered, got %v", stored.UserAnswer)
	}

	// Resubmission succeeds once the model behaves.
	env.llm.jsonErr = nil
	if _, err := env.svc.SubmitAnswer(ctx, session.ID, q1.ID, "answer"); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
}

func TestSubmitAnswerWrongSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, q1 := env.createStartedSession(t)
	other, _ := env.createStartedSession(t)

	_, err := env.svc.SubmitAnswer(ctx, other.ID, q1.ID, "answer")
	if !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("expected NOT_FOUND for cross-session question, got %v", err)
	}
}

func TestEndSessionIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, _ := env.createStartedSession(t)

	first, err := env.svc.EndSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	second, err := env.svc.EndSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("second EndSession failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("repeated end must return the stored snapshot: %s != %s", first.ID, second.ID)
	}
}

func TestEndSessionRaceWaitsForWinnerSnapshot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, _ := env.createStartedSession(t)

	// Simulate losing the end race: another caller has flipped the
	// status but has not yet written its snapshot.
	env.sessionRepo.mu.Lock()
	env.sessionRepo.sessions[session.ID].Status = models.StatusCompleted
	env.sessionRepo.mu.Unlock()

	winner := &models.AnalyticsSnapshot{
		ID:             uuid.New(),
		SessionID:      session.ID,
		QuestionsCount: 1,
		GeneratedAt:    time.Now(),
	}
	go func() {
		time.Sleep(100 * time.Millisecond)
		env.analytics.Create(winner)
	}()

	snapshot, err := env.svc.EndSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("EndSession should wait out the race, got %v", err)
	}
	if snapshot.ID != winner.ID {
		t.Errorf("expected the winner's snapshot, got %s", snapshot.ID)
	}
}

func TestEndSessionRequiresStart(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, err := env.svc.CreateSession(ctx, &models.CreateSessionRequest{SubjectName: "Ada"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = env.svc.EndSession(ctx, session.ID)
	if !apperrors.Is(err, apperrors.KindInvalidTransition) {
		t.Errorf("expected INVALID_TRANSITION, got %v", err)
	}
}

func TestStartSessionGenerationFailure(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	session, err := env.svc.CreateSession(ctx, &models.CreateSessionRequest{SubjectName: "Ada"})
	if err != nil {
		t.Fatal(err)
	}

	env.llm.completeErr = apperrors.New(apperrors.KindServiceUnavailable, "ollama down")
	started, question, err := env.svc.StartSession(ctx, session.ID)
	if err == nil {
		t.Fatal("expected generation failure")
	}
	if started == nil || started.Status != models.StatusInProgress {
		t.Fatalf("session must still be started, got %+v", started)
	}
	if question != nil {
		t.Errorf("no question should exist, got %+v", question)
	}

	// Ordinal 1 stays valid for a retry.
	env.llm.completeErr = nil
	q, err := env.svc.GenerateQuestion(ctx, session.ID, 1)
	if err != nil {
		t.Fatalf("retry generation failed: %v", err)
	}
	if q.QuestionOrder != 1 {
		t.Errorf("retry question order = %d", q.QuestionOrder)
	}
}

func TestCreateSessionWithStagedDocuments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resumeDoc := &models.Document{
		ID:             uuid.New(),
		Kind:           models.DocumentResume,
		FilePath:       "/uploads/resume_abc.pdf",
		CollectionName: "resume_abc",
	}
	if err := env.docs.Create(resumeDoc); err != nil {
		t.Fatal(err)
	}

	session, err := env.svc.CreateSession(ctx, &models.CreateSessionRequest{
		SubjectName:  "Ada",
		ResumeRef:    resumeDoc.ID.String(),
		ReferenceRef: "/docs/golang-handbook.pdf",
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if session.ResumeCollection == nil || *session.ResumeCollection != "resume_abc" {
		t.Errorf("resume collection not bound: %v", session.ResumeCollection)
	}
	if session.ReferenceDocPath == nil || *session.ReferenceDocPath != "/docs/golang-handbook.pdf" {
		t.Errorf("raw reference path not kept: %v", session.ReferenceDocPath)
	}

	bound, err := env.docs.FindByID(resumeDoc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bound.SessionID == nil || *bound.SessionID != session.ID {
		t.Errorf("staged document not bound to session")
	}
}

func TestCreateSessionRejectsWrongDocumentKind(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	refDoc := &models.Document{ID: uuid.New(), Kind: models.DocumentReference}
	if err := env.docs.Create(refDoc); err != nil {
		t.Fatal(err)
	}

	_, err := env.svc.CreateSession(ctx, &models.CreateSessionRequest{
		SubjectName: "Ada",
		ResumeRef:   refDoc.ID.String(),
	})
	if !apperrors.Is(err, apperrors.KindInvalidConfiguration) {
		t.Errorf("expected INVALID_CONFIGURATION, got %v", err)
	}
}

func TestCreateSessionRequiresSubjectName(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateSession(context.Background(), &models.CreateSessionRequest{})
	if !apperrors.Is(err, apperrors.KindInvalidConfiguration) {
		t.Errorf("expected INVALID_CONFIGURATION, got %v", err)
	}
}

func TestAddTranscriptValidation(t *testing.T) {
	env := newTestEnv()

	session, _ := env.createStartedSession(t)

	if _, err := env.svc.AddTranscript(session.ID, "narrator", "hi", 0); !apperrors.Is(err, apperrors.KindInvalidConfiguration) {
		t.Errorf("expected INVALID_CONFIGURATION for bad speaker, got %v", err)
	}
	if _, err := env.svc.AddTranscript(session.ID, models.SpeakerCandidate, "", 0); !apperrors.Is(err, apperrors.KindInvalidConfiguration) {
		t.Errorf("expected INVALID_CONFIGURATION for empty text, got %v", err)
	}

	entry, err := env.svc.AddTranscript(session.ID, models.SpeakerCandidate, "I think...", 1500)
	if err != nil {
		t.Fatalf("AddTranscript failed: %v", err)
	}
	if entry.OffsetMs != 1500 {
		t.Errorf("offset = %d", entry.OffsetMs)
	}
}

func TestRetrievalFailureDegradesToEmptyContext(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	missing := "resume_missing"
	session, err := env.svc.CreateSession(ctx, &models.CreateSessionRequest{SubjectName: "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	env.sessionRepo.mu.Lock()
	env.sessionRepo.sessions[session.ID].ResumeCollection = &missing
	env.sessionRepo.mu.Unlock()

	// Question generation still succeeds; the missing collection only
	// costs the prompt its context.
	if _, _, err := env.svc.StartSession(ctx, session.ID); err != nil {
		t.Fatalf("StartSession failed despite missing collection: %v", err)
	}
}

func TestDecodeEvaluation(t *testing.T) {
	valid := `{"correctness_score":8,"completeness_score":7,"clarity_score":9,"overall_score":8,"feedback":"ok"}`

	var out models.EvaluationResult
	if err := decodeEvaluation([]byte(valid), &out); err != nil {
		t.Fatalf("decodeEvaluation failed: %v", err)
	}
	if out.Strengths == nil || out.Improvements == nil {
		t.Error("absent list fields must decode to empty slices")
	}

	cases := []struct {
		name string
		in   string
	}{
		{"not json", "hello"},
		{"missing score", `{"completeness_score":7,"clarity_score":9,"overall_score":8,"feedback":"ok"}`},
		{"score out of range", `{"correctness_score":11,"completeness_score":7,"clarity_score":9,"overall_score":8,"feedback":"ok"}`},
		{"negative score", `{"correctness_score":-1,"completeness_score":7,"clarity_score":9,"overall_score":8,"feedback":"ok"}`},
		{"missing feedback", `{"correctness_score":8,"completeness_score":7,"clarity_score":9,"overall_score":8}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var res models.EvaluationResult
			if err := decodeEvaluation([]byte(tc.in), &res); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}
