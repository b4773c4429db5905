package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return err
	}

	jobRepo := repositories.NewJobConfigRepository(db)
	resumeLogRepo := repositories.NewResumeLogRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)

	storage, err := services.NewStorageService(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	if err := storage.Init(ctx); err != nil {
		return err
	}

	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:       cfg.Gemini.APIKey,
		Model:        cfg.Gemini.Model,
		EmbedModel:   cfg.Gemini.EmbedModel,
		InitialDelay: cfg.Worker.RetryInitialDelay,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize gemini: %w", err)
	}

	index, err := services.NewResumeIndexFromConfig(ctx, cfg.Qdrant, geminiService, log)
	if err != nil {
		return fmt.Errorf("failed to initialize qdrant: %w", err)
	}

	jobService := services.NewJobConfigService(jobRepo, log)
	evaluator := services.NewEvaluatorService(
		submissionRepo,
		jobRepo,
		resumeLogRepo,
		geminiService,
		services.NewResumeParserService(),
		storage,
		index,
		services.EvaluatorOptions{
			MaxRetries:  cfg.Worker.RetryMaxAttempts,
			Temperature: cfg.Gemini.Temperature,
		},
		log,
	)

	worker := services.NewWorker(submissionRepo, evaluator, cfg.Worker.Concurrency, cfg.Worker.PollInterval, log)
	worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.Register(app.Group("/api/v1"), handlers.Handlers{
		Jobs: handlers.NewJobHandler(jobService, log),
		Submissions: handlers.NewSubmissionHandler(
			jobService,
			submissionRepo,
			resumeLogRepo,
			storage,
			worker,
			cfg.Storage.MaxFileSize,
			log,
		),
		Resumes: handlers.NewResumeHandler(resumeLogRepo, jobService, index, cfg.Browse.PageSize, log),
		Prompts: handlers.NewPromptHandler(services.NewPromptTemplateEngine()),
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	return app.Listen(addr)
}

func customErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  code,
		})
	}
}
