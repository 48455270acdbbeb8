// Package server exposes the parse pipeline as a JSON REST API.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/careerforge/resume-parser/constants"
	"github.com/careerforge/resume-parser/internal/common"
	"github.com/careerforge/resume-parser/internal/export"
	"github.com/careerforge/resume-parser/internal/jobs"
)

// Enqueuer is the slice of the async queue the server needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, jobID uuid.UUID) error
}

// Service wires the HTTP surface to the job store and worker queue.
type Service struct {
	cfg      *common.Config
	store    *jobs.Store
	queue    Enqueuer
	exporter *export.Service
	logger   *slog.Logger
}

func NewService(cfg *common.Config, store *jobs.Store, queue Enqueuer, exporter *export.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, store: store, queue: queue, exporter: exporter, logger: logger}
}

// Router builds the chi route tree.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Post("/parse", s.handleParse)
	r.Get("/status/{id}", s.handleStatus)
	r.Delete("/resume/{id}", s.handleDelete)
	r.Get("/export", s.handleExport)
	return r
}

type parseRequest struct {
	FileBase64    string `json:"fileBase64"`
	FileName      string `json:"fileName"`
	MimeType      string `json:"mimeType"`
	TargetRole    string `json:"targetRole"`
	ModelOverride string `json:"modelOverride"`
}

type parseResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type telemetry struct {
	RequestID       string `json:"request_id"`
	ReceivedAt      string `json:"received_at"`
	ProcessingMS    *int64 `json:"processing_ms,omitempty"`
	ModelUsed       string `json:"model_used,omitempty"`
	PipelineVersion string `json:"pipeline_version"`
}

type statusResponse struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Telemetry telemetry       `json:"telemetry"`
}

// handleParse accepts a resume upload (multipart form "file" part, or JSON with
// base64 bytes), stores a queued job and hands it to the workers. Malformed
// payloads fail loudly with a 400.
func (s *Service) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	job, err := s.jobFromRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(job.Payload) == 0 {
		s.writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	if job.TargetRole == "" {
		job.TargetRole = s.cfg.Pipeline.TargetRoleDefault
	}
	if ext := constants.NormalizeExt(filepath.Ext(job.FileName)); ext != "" {
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			// Not a rejection: the extractor falls back and short text queues OCR.
			s.logger.Warn("server.parse.unknown_extension", "file_name", job.FileName, "ext", ext)
		}
	}

	if err := s.store.Create(r.Context(), job); err != nil {
		s.logger.Error("server.parse.create_error", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not store job")
		return
	}
	if err := s.queue.Enqueue(r.Context(), job.ID); err != nil {
		s.logger.Error("server.parse.enqueue_error", "job_id", job.ID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not queue job")
		return
	}

	s.writeJSON(w, http.StatusAccepted, parseResponse{ID: job.ID.String(), Status: string(constants.JobStatusQueued)})
}

func (s *Service) jobFromRequest(r *http.Request) (*jobs.Job, error) {
	ct := r.Header.Get("Content-Type")

	if ct != "" && len(ct) >= 9 && ct[:9] == "multipart" {
		if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
			return nil, errors.New("invalid multipart form")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("file part is required")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.New("could not read file part")
		}
		fileName := r.FormValue("fileName")
		if fileName == "" && header != nil {
			fileName = header.Filename
		}
		mimeType := r.FormValue("mimeType")
		if mimeType == "" && header != nil {
			mimeType = header.Header.Get("Content-Type")
		}
		return &jobs.Job{
			FileName:      fileName,
			MIMEType:      mimeType,
			TargetRole:    r.FormValue("targetRole"),
			ModelOverride: r.FormValue("modelOverride"),
			Payload:       data,
		}, nil
	}

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON body")
	}
	if req.FileBase64 == "" {
		return nil, errors.New("fileBase64 is required")
	}
	data, err := base64.StdEncoding.DecodeString(req.FileBase64)
	if err != nil {
		return nil, errors.New("fileBase64 is not valid base64")
	}
	return &jobs.Job{
		FileName:      req.FileName,
		MIMEType:      req.MimeType,
		TargetRole:    req.TargetRole,
		ModelOverride: req.ModelOverride,
		Payload:       data,
	}, nil
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := s.store.Get(r.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.logger.Error("server.status.load_error", "job_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not load job")
		return
	}

	resp := statusResponse{
		ID:     job.ID.String(),
		Status: string(job.Status),
		Telemetry: telemetry{
			RequestID:       job.ID.String(),
			ReceivedAt:      job.ReceivedAt.Format(time.RFC3339),
			ProcessingMS:    job.ProcessingMS,
			ModelUsed:       job.ModelUsed,
			PipelineVersion: constants.PipelineVersion,
		},
	}
	if len(job.ResultJSON) > 0 {
		resp.Result = json.RawMessage(job.ResultJSON)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	err = s.store.Delete(r.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.logger.Error("server.delete.error", "job_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not delete job")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id.String()})
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.ExportCompletedXLSX(r.Context())
	if err != nil {
		s.logger.Error("server.export.error", "error", err)
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="resumes.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Service) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service": "resume-parser",
		"env":     s.cfg.Env,
		"models": map[string]string{
			"flash": s.cfg.LLM.ModelFlash,
			"pro":   s.cfg.LLM.ModelPro,
		},
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("server.write_json_error", "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
