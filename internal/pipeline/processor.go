package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careerforge/resume-parser/constants"
	"github.com/careerforge/resume-parser/internal/jobs"
)

// Processor runs the pipeline for stored jobs and records the outcome.
type Processor struct {
	logger *slog.Logger
	store  *jobs.Store
	runner *Runner
}

func NewProcessor(logger *slog.Logger, store *jobs.Store, runner *Runner) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, store: store, runner: runner}
}

// ProcessJob loads a queued job, drives the pipeline, and stores the terminal
// status: COMPLETED, BLOCKED (screener hit) or FAILED (bookkeeping errors only,
// the pipeline itself cannot fail).
func (p *Processor) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := p.store.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job.Status.Terminal() {
		p.logger.Warn("processor.skip_terminal", "job_id", jobID, "status", job.Status)
		return nil
	}
	if err := p.store.MarkRunning(ctx, jobID); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}

	start := time.Now()
	result, stats := p.runner.Run(ctx, Input{
		Data:          job.Payload,
		FileName:      job.FileName,
		MIMEType:      job.MIMEType,
		TargetRole:    job.TargetRole,
		ModelOverride: job.ModelOverride,
	})
	elapsed := time.Since(start).Milliseconds()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		_ = p.store.Finish(ctx, jobID, constants.JobStatusFailed, nil, elapsed, stats.ModelUsed, err.Error())
		return fmt.Errorf("marshal result: %w", err)
	}

	status := constants.JobStatusCompleted
	if stats.Blocked {
		status = constants.JobStatusBlocked
	}
	if err := p.store.Finish(ctx, jobID, status, resultJSON, elapsed, stats.ModelUsed, result.Error); err != nil {
		return fmt.Errorf("finish job: %w", err)
	}

	p.logger.Info("processor.job.done",
		"job_id", jobID,
		"status", status,
		"enriched", stats.Enriched,
		"elapsed_ms", elapsed,
	)
	return nil
}
