// Package jobs is the bookkeeping layer around pipeline invocations: one row per
// upload, carrying the request snapshot, telemetry and the final result.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/careerforge/resume-parser/constants"
	"github.com/careerforge/resume-parser/internal/common"
)

// Schema for the parse_jobs table.
const Schema = `
CREATE TABLE IF NOT EXISTS parse_jobs (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	file_name TEXT NOT NULL DEFAULT '',
	mime_type TEXT NOT NULL DEFAULT '',
	target_role TEXT NOT NULL DEFAULT '',
	model_override TEXT NOT NULL DEFAULT '',
	payload BLOB,
	received_at TEXT NOT NULL,
	processing_ms INTEGER,
	model_used TEXT NOT NULL DEFAULT '',
	result_json BLOB,
	error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_parse_jobs_status ON parse_jobs(status);
`

// Job is one parse request and its lifecycle.
type Job struct {
	ID            uuid.UUID
	Status        constants.JobStatus
	FileName      string
	MIMEType      string
	TargetRole    string
	ModelOverride string
	Payload       []byte
	ReceivedAt    time.Time
	ProcessingMS  *int64
	ModelUsed     string
	ResultJSON    []byte
	Error         string
}

// Store persists jobs in SQLite. The default DSN is ":memory:", which keeps
// bookkeeping per-process as the service intends; point it at a file to survive
// restarts.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (and initializes) a job store at dsn.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}
	// A single connection keeps :memory: databases from silently forking.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init job store schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new queued job.
func (s *Store) Create(ctx context.Context, j *Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = constants.JobStatusQueued
	}
	if j.ReceivedAt.IsZero() {
		j.ReceivedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parse_jobs (id, status, file_name, mime_type, target_role, model_override, payload, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID.String(), string(j.Status), j.FileName, j.MIMEType, j.TargetRole, j.ModelOverride,
		j.Payload, j.ReceivedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	s.logger.Info("jobs.create", "job_id", j.ID, "file_name", j.FileName, "bytes", len(j.Payload))
	return nil
}

// Get returns a job by id, payload included. common.ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, file_name, mime_type, target_role, model_override, payload,
		       received_at, processing_ms, model_used, result_json, error
		FROM parse_jobs WHERE id = ?`, id.String())
	return scanJob(row)
}

// MarkRunning transitions a queued job to RUNNING.
func (s *Store) MarkRunning(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE parse_jobs SET status = ? WHERE id = ?`,
		string(constants.JobStatusRunning), id.String())
	if err != nil {
		return fmt.Errorf("mark running: %w", err)
	}
	return requireRow(res)
}

// Finish records the terminal state of a job. The payload is dropped at the same
// time: file bytes are scoped to the invocation.
func (s *Store) Finish(ctx context.Context, id uuid.UUID, status constants.JobStatus, resultJSON []byte, processingMS int64, modelUsed, errMsg string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE parse_jobs
		SET status = ?, result_json = ?, processing_ms = ?, model_used = ?, error = ?, payload = NULL
		WHERE id = ?`,
		string(status), resultJSON, processingMS, modelUsed, errMsg, id.String())
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	s.logger.Info("jobs.finish", "job_id", id, "status", status, "processing_ms", processingMS)
	return requireRow(res)
}

// Delete removes a job. common.ErrNotFound when absent.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM parse_jobs WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return requireRow(res)
}

// ListByStatus returns jobs in a given status, payloads omitted, oldest first.
func (s *Store) ListByStatus(ctx context.Context, status constants.JobStatus) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, file_name, mime_type, target_role, model_override, NULL,
		       received_at, processing_ms, model_used, result_json, error
		FROM parse_jobs WHERE status = ? ORDER BY received_at`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (*Job, error) {
	var (
		j            Job
		idStr        string
		statusStr    string
		receivedAt   string
		processingMS sql.NullInt64
	)
	err := r.Scan(&idStr, &statusStr, &j.FileName, &j.MIMEType, &j.TargetRole, &j.ModelOverride,
		&j.Payload, &receivedAt, &processingMS, &j.ModelUsed, &j.ResultJSON, &j.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	j.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	j.Status = constants.JobStatus(statusStr)
	if t, err := time.Parse(time.RFC3339Nano, receivedAt); err == nil {
		j.ReceivedAt = t
	}
	if processingMS.Valid {
		ms := processingMS.Int64
		j.ProcessingMS = &ms
	}
	return &j, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
