package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careerforge/resume-parser/internal/async"
	"github.com/careerforge/resume-parser/internal/common"
	"github.com/careerforge/resume-parser/internal/export"
	"github.com/careerforge/resume-parser/internal/extract"
	"github.com/careerforge/resume-parser/internal/jobs"
	"github.com/careerforge/resume-parser/internal/llm"
	"github.com/careerforge/resume-parser/internal/llm/gemini"
	"github.com/careerforge/resume-parser/internal/pipeline"
	"github.com/careerforge/resume-parser/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := jobs.Open(cfg.Jobs.DSN, logger)
	if err != nil {
		logger.Error("open job store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var enricher llm.FieldExtractor
	if cfg.LLM.APIKey != "" {
		enricher = gemini.NewClient(gemini.Config{
			APIKey:     cfg.LLM.APIKey,
			BaseURL:    cfg.LLM.BaseURL,
			ModelFlash: cfg.LLM.ModelFlash,
			Timeout:    cfg.LLM.Timeout,
		}, logger)
		logger.Info("enrichment enabled", "model", cfg.LLM.ModelFlash)
	} else {
		logger.Info("enrichment disabled: no GEMINI_API_KEY, running heuristics only")
	}

	runner := pipeline.NewRunner(extract.NewExtractor(logger), enricher, logger)
	processor := pipeline.NewProcessor(logger, store, runner)

	queue := async.NewQueue(processor.ProcessJob, logger,
		async.WithWorkers(cfg.Jobs.Workers),
		async.WithQueueSize(cfg.Jobs.QueueSize),
		async.WithJobTimeout(cfg.Jobs.Timeout),
	)

	exporter := export.NewService(store, logger)
	svc := server.NewService(cfg, store, queue, exporter, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
