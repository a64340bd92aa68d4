package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-platform/internal/models"
	"interview-platform/internal/repositories"
)

// ProctorWorker analyzes uploaded interview frames in the background.
// Frames arriving faster than the configured interval are dropped; the
// vision model shares the GPU with the LLM, so analysis holds the model
// lock for the duration of each call.
type ProctorWorker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueFrame(sessionID uuid.UUID, frame []byte, offsetMs int64) bool
}

type frameJob struct {
	sessionID uuid.UUID
	frame     []byte
	offsetMs  int64
}

type proctorWorker struct {
	proctorRepo   repositories.ProctoringRepository
	vision        VisionService
	modelLock     *ModelLock
	frameInterval time.Duration
	jobQueue      chan frameJob
	lastFrame     time.Time
	mu            sync.Mutex
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

func NewProctorWorker(
	proctorRepo repositories.ProctoringRepository,
	vision VisionService,
	modelLock *ModelLock,
	frameInterval time.Duration,
	buffer int,
) ProctorWorker {
	if buffer <= 0 {
		buffer = 100
	}
	return &proctorWorker{
		proctorRepo:   proctorRepo,
		vision:        vision,
		modelLock:     modelLock,
		frameInterval: frameInterval,
		jobQueue:      make(chan frameJob, buffer),
		stopChan:      make(chan struct{}),
	}
}

// Start implements ProctorWorker.
func (w *proctorWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.processFrames(ctx)
	log.Println("✅ Proctoring worker started")
}

// Stop implements ProctorWorker.
func (w *proctorWorker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Proctoring worker stopped")
}

// EnqueueFrame implements ProctorWorker. Returns false when the frame
// was dropped by sampling, a full queue, or shutdown.
func (w *proctorWorker) EnqueueFrame(sessionID uuid.UUID, frame []byte, offsetMs int64) bool {
	if !w.vision.Enabled() {
		return false
	}

	w.mu.Lock()
	if time.Since(w.lastFrame) < w.frameInterval {
		w.mu.Unlock()
		return false
	}
	w.lastFrame = time.Now()
	w.mu.Unlock()

	select {
	case w.jobQueue <- frameJob{sessionID: sessionID, frame: frame, offsetMs: offsetMs}:
		return true
	case <-w.stopChan:
		return false
	default:
		log.Printf("⚠️ Frame queue full, dropping frame for session %s", sessionID)
		return false
	}
}

func (w *proctorWorker) processFrames(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case job := <-w.jobQueue:
			w.analyzeJob(ctx, job)
		}
	}
}

func (w *proctorWorker) analyzeJob(ctx context.Context, job frameJob) {
	w.modelLock.Acquire()
	analysis, err := w.vision.AnalyzeFrame(ctx, job.frame)
	w.modelLock.Release()
	if err != nil {
		log.Printf("⚠️ Frame analysis failed for session %s: %v", job.sessionID, err)
		return
	}

	if !analysis.AnomalyDetected || analysis.AnomalyType == "NONE" {
		return
	}

	event := &models.ProctoringEvent{
		ID:              uuid.New(),
		SessionID:       job.sessionID,
		EventType:       models.ProctoringEventType(analysis.AnomalyType),
		ConfidenceScore: ptrFloat(analysis.ConfidenceScore),
		OffsetMs:        job.offsetMs,
		CreatedAt:       time.Now(),
	}

	if err := w.proctorRepo.Create(event); err != nil {
		log.Printf("⚠️ Failed to persist proctoring event: %v", err)
		return
	}

	log.Printf("🚨 Proctoring event %s recorded for session %s", event.EventType, job.sessionID)
}
