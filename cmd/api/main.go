package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"interview-platform/internal/config"
	"interview-platform/internal/handlers"
	"interview-platform/internal/repositories"
	"interview-platform/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	sessionRepo := repositories.NewSessionRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	transcriptRepo := repositories.NewTranscriptRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	proctorRepo := repositories.NewProctoringRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	// Load prompt templates (built-in defaults unless overridden)
	templates, err := config.LoadPromptTemplates(cfg.Prompts.File)
	if err != nil {
		log.Fatalf("❌ Failed to load prompt templates: %v", err)
	}
	promptBuilder := services.NewPromptBuilder(templates)

	// Initialize Ollama-backed model client
	llmService := services.NewLLMService(cfg.Ollama)
	log.Println("✅ LLM service initialized successfully")

	// Initialize Qdrant
	vectorService, err := services.NewVectorService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, llmService, cfg.Qdrant.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize document pipeline
	chunker := services.NewTextChunker()
	documentService := services.NewDocumentService(
		chunker,
		vectorService,
		cfg.Retrieval.ChunkSize,
		cfg.Retrieval.ChunkOverlap,
	)

	// Single lock serializing GPU access between the LLM and the vision
	// model.
	modelLock := services.NewModelLock()

	// Initialize interview orchestration
	interviewService := services.NewInterviewService(
		sessionRepo,
		questionRepo,
		transcriptRepo,
		analyticsRepo,
		docRepo,
		proctorRepo,
		llmService,
		vectorService,
		promptBuilder,
		modelLock,
		services.InterviewConfig{
			QuestionCount:      cfg.Interview.QuestionCount,
			MaxRetrievedChunks: cfg.Retrieval.MaxRetrievedChunks,
			MaxContextTokens:   cfg.Retrieval.MaxContextTokens,
		},
	)
	log.Println("✅ Interview service initialized")

	// Initialize vision + proctoring worker
	visionService := services.NewVisionService(llmService, promptBuilder, cfg.Vision.Enabled)
	proctorWorker := services.NewProctorWorker(
		proctorRepo,
		visionService,
		modelLock,
		cfg.Vision.FrameInterval,
		cfg.Vision.WorkerBuffer,
	)

	ctx := context.Background()
	proctorWorker.Start(ctx)

	// Initialize speech
	speechService := services.NewSpeechService(cfg.Speech)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(interviewService)
	uploadHandler := handlers.NewUploadHandler(
		docRepo,
		storageService,
		documentService,
		cfg.Storage.MaxFileSize,
	)
	interviewHandler := handlers.NewInterviewHandler(interviewService)
	proctoringHandler := handlers.NewProctoringHandler(proctorWorker, proctorRepo)
	speechHandler := handlers.NewSpeechHandler(speechService, storageService)
	healthHandler := handlers.NewHealthHandler(db, llmService, vectorService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Interview Platform API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	app.Get("/health", healthHandler.HandleHealth)

	api := app.Group("/api")

	sessions := api.Group("/sessions")
	sessions.Post("/create", sessionHandler.HandleCreate)
	sessions.Get("/", sessionHandler.HandleList)
	sessions.Get("/:id", sessionHandler.HandleGet)
	sessions.Post("/:id/start", sessionHandler.HandleStart)
	sessions.Post("/:id/end", sessionHandler.HandleEnd)
	sessions.Get("/:id/analytics", sessionHandler.HandleAnalytics)

	upload := api.Group("/upload")
	upload.Post("/resume", uploadHandler.HandleUploadResume)
	upload.Post("/reference", uploadHandler.HandleUploadReference)

	interview := api.Group("/interview")
	interview.Post("/generate-question", interviewHandler.HandleGenerateQuestion)
	interview.Post("/submit-answer", interviewHandler.HandleSubmitAnswer)
	interview.Post("/add-transcript", interviewHandler.HandleAddTranscript)
	interview.Get("/:id/transcript", interviewHandler.HandleGetTranscript)
	interview.Get("/:id/questions", interviewHandler.HandleGetQuestions)

	proctoring := api.Group("/proctoring")
	proctoring.Post("/frame", proctoringHandler.HandleReportFrame)
	proctoring.Get("/:id/events", proctoringHandler.HandleGetEvents)

	speech := api.Group("/speech")
	speech.Post("/transcribe", speechHandler.HandleTranscribe)
	speech.Post("/synthesize", speechHandler.HandleSynthesize)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interview Platform API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/sessions/create",
				"POST /api/sessions/:id/start",
				"POST /api/sessions/:id/end",
				"POST /api/upload/resume",
				"POST /api/upload/reference",
				"POST /api/interview/generate-question",
				"POST /api/interview/submit-answer",
				"POST /api/proctoring/frame",
				"POST /api/speech/transcribe",
				"POST /api/speech/synthesize",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		proctorWorker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
