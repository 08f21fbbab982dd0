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
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"hirescreen/job-screening/internal/config"
	"hirescreen/job-screening/internal/handlers"
	"hirescreen/job-screening/internal/pipeline"
	"hirescreen/job-screening/internal/repositories"
	"hirescreen/job-screening/internal/services"
	"hirescreen/job-screening/internal/worker"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	logger.Info("database connected and migrated")

	// Repositories
	jobRepo := repositories.NewJobRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	matchRepo := repositories.NewMatchResultRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	runRepo := repositories.NewScreeningRunRepository(db)

	// Services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, logger)
	if err != nil {
		logger.Fatal("failed to initialize Gemini", zap.Error(err))
	}

	vectorService, err := services.NewVectorService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, geminiService, logger)
	if err != nil {
		logger.Fatal("failed to initialize Qdrant", zap.Error(err))
	}
	if err := vectorService.EnsureCollections(ctx, cfg.Qdrant.CollectionJD, cfg.Qdrant.CollectionCV); err != nil {
		logger.Fatal("failed to initialize Qdrant collections", zap.Error(err))
	}
	logger.Info("qdrant initialized")

	extractor := services.NewTextExtractor()
	chunker := services.NewTextChunker(cfg.Screening.ChunkSize, cfg.Screening.ChunkOverlap)
	summarizer := services.NewSummarizerService(geminiService, cfg.Worker.RetryMaxAttempts)
	matcher := services.NewMatcherService(geminiService, cfg.Screening.MinMatchScore, cfg.Worker.RetryMaxAttempts, logger)
	inviter := services.NewInviterService(geminiService)
	mailer := services.NewMailer(cfg, logger)

	// Pipeline
	screeningPipeline := pipeline.New(
		extractor,
		chunker,
		summarizer,
		matcher,
		inviter,
		mailer,
		vectorService,
		jobRepo,
		candidateRepo,
		matchRepo,
		interviewRepo,
		pipeline.Settings{
			CollectionJD:  cfg.Qdrant.CollectionJD,
			CollectionCV:  cfg.Qdrant.CollectionCV,
			TopKContext:   cfg.Screening.TopKContext,
			MaxShortlist:  cfg.Screening.MaxShortlist,
			MinMatchScore: cfg.Screening.MinMatchScore,
		},
		logger,
	)

	// Worker
	w := worker.New(runRepo, screeningPipeline, cfg.Worker.Concurrency, logger)
	w.Start(ctx)
	logger.Info("worker started")

	// Handlers
	uploadHandler := handlers.NewUploadHandler(storageService, cfg.Storage.MaxFileSize)
	screeningHandler := handlers.NewScreeningHandler(runRepo, w)
	resultHandler := handlers.NewResultHandler(jobRepo, candidateRepo)

	app := fiber.New(fiber.Config{
		AppName:      "AI Job Screening API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/screenings", screeningHandler.HandleCreate)
	api.Get("/screenings/:id", screeningHandler.HandleGet)
	api.Get("/jobs/:id/results", resultHandler.HandleGetJobResults)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("shutting down server")
		w.Stop()
		if err := app.Shutdown(); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
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
