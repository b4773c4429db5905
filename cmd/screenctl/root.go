package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

const app = "screenctl"

var (
	debugLogs bool
	jsonLogs  bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "screenctl manages resume screening jobs and browses evaluated resumes",
		SilenceUsage:  true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugLogs, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")
}

// env holds what every subcommand needs: configuration, a logger and the store.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	jobs   services.JobConfigService
	resume repositories.ResumeLogRepository
}

func setup() (*env, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON || jsonLogs, cfg.Log.Debug || debugLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		log:    log,
		db:     db,
		jobs:   services.NewJobConfigService(repositories.NewJobConfigRepository(db), log),
		resume: repositories.NewResumeLogRepository(db),
	}, nil
}

func (e *env) gemini(ctx context.Context) (services.GeminiService, error) {
	return services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:       e.cfg.Gemini.APIKey,
		Model:        e.cfg.Gemini.Model,
		EmbedModel:   e.cfg.Gemini.EmbedModel,
		InitialDelay: e.cfg.Worker.RetryInitialDelay,
	}, e.log)
}

func (e *env) close() {
	e.log.Sync()
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
}
