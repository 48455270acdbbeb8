// Package pipeline orchestrates the resume parse: extract text, screen it, run the
// heuristic recognizers and scorers, optionally enrich with a remote model, and
// assemble the final result.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/careerforge/resume-parser/constants"
	"github.com/careerforge/resume-parser/internal/fields"
	"github.com/careerforge/resume-parser/internal/llm"
	"github.com/careerforge/resume-parser/internal/safety"
	"github.com/careerforge/resume-parser/internal/scoring"
)

// needsOCRThreshold is the minimum extracted-text length below which the document
// is flagged for OCR.
const needsOCRThreshold = 200

// Input is one invocation of the pipeline. The byte slice is owned by the
// invocation and released with it.
type Input struct {
	Data          []byte
	FileName      string
	MIMEType      string
	TargetRole    string
	ModelOverride string
}

// Result is the pipeline output: constructed once, returned, never mutated.
// If Error is set the screener blocked the document: Text is empty and every
// score is zero.
type Result struct {
	Text   string           `json:"text,omitempty"`
	Scores scoring.ScoreSet `json:"scores"`
	Fields fields.FieldMap  `json:"fields"`
	Error  string           `json:"error,omitempty"`
}

// Stats reports run metadata for job telemetry.
type Stats struct {
	ModelUsed string
	Enriched  bool
	Blocked   bool
}

// state is the orchestrator position. The early-exit contract (nothing runs after
// a safety hit) hangs off the explicit Blocked branch rather than nested ifs.
type state int

const (
	stateExtracting state = iota
	stateScreening
	stateBlocked
	stateExtractingFields
	stateScoring
	stateEnriching
	stateFinalizing
)

// TextExtractor converts raw document bytes into plain text. Satisfied by
// extract.Extractor.
type TextExtractor interface {
	Text(data []byte, mimeType, fileName string) string
}

// Runner executes the pipeline. It is stateless across invocations; concurrent
// Runs share nothing but the (pure) components.
type Runner struct {
	extractor TextExtractor
	enricher  llm.FieldExtractor // nil when enrichment is not configured
	logger    *slog.Logger
}

// NewRunner creates a Runner. enricher may be nil.
func NewRunner(extractor TextExtractor, enricher llm.FieldExtractor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{extractor: extractor, enricher: enricher, logger: logger}
}

// Run drives the state machine to one of its two terminal states. It never
// returns an error: decode failures degrade to empty text and enrichment
// failures degrade to heuristics-only, both by contract.
func (r *Runner) Run(ctx context.Context, in Input) (Result, Stats) {
	var (
		text   string
		heur   fields.FieldMap
		remote fields.FieldMap
		scores scoring.ScoreSet
		reason string
		stats  Stats
	)

	st := stateExtracting
	for {
		switch st {
		case stateExtracting:
			text = r.extractor.Text(in.Data, in.MIMEType, in.FileName)
			st = stateScreening

		case stateScreening:
			ok, why := safety.Screen(text)
			if !ok {
				reason = why
				st = stateBlocked
				break
			}
			st = stateExtractingFields

		case stateBlocked:
			r.logger.Warn("pipeline.blocked", "file_name", in.FileName, "reason", reason)
			stats.Blocked = true
			return blockedResult(reason), stats

		case stateExtractingFields:
			heur = fields.Extract(text)
			st = stateScoring

		case stateScoring:
			scores = scoring.Score(text, in.TargetRole)
			st = stateEnriching

		case stateEnriching:
			if r.enricher != nil && text != "" {
				if m, ok := r.enricher.ExtractFields(ctx, llm.ExtractRequest{
					DocumentText:  text,
					ModelOverride: in.ModelOverride,
				}); ok {
					remote = m
					stats.Enriched = true
					stats.ModelUsed = r.modelUsed(in.ModelOverride)
				}
			}
			st = stateFinalizing

		case stateFinalizing:
			merged := fields.Merge(heur, remote)
			merged[constants.FieldNeedsOCR] = needsOCRField(text)
			merged[constants.FieldAntivirus] = antivirusStub()
			return Result{Text: text, Scores: scores, Fields: merged}, stats
		}
	}
}

func (r *Runner) modelUsed(override string) string {
	type namer interface{ Model(override string) string }
	if n, ok := r.enricher.(namer); ok {
		return n.Model(override)
	}
	return ""
}

// blockedResult is the terminal Blocked shape: no text, zero scores, only the two
// stub statuses plus the human-readable reason.
func blockedResult(reason string) Result {
	return Result{
		Scores: scoring.ScoreSet{},
		Fields: fields.FieldMap{
			constants.FieldNeedsOCR:  fields.NewValue(false, 0.9).With("ocr_status", "blocked"),
			constants.FieldAntivirus: fields.NewValue("failed", 0.5).With("scan_status", "blocked"),
		},
		Error: reason,
	}
}

// needsOCRField flags documents whose text layer came back absent or too short to
// be a real resume. OCR itself is an external dependency; this core only queues.
func needsOCRField(text string) fields.FieldValue {
	if len(text) < needsOCRThreshold {
		return fields.NewValue(true, 0.9).With("ocr_status", "queued")
	}
	return fields.NewValue(false, 0.9).With("ocr_status", "not_required")
}

// antivirusStub declares the unimplemented external scan; this core never reports
// a pass/fail outcome.
func antivirusStub() fields.FieldValue {
	return fields.NewValue("pending", 0.5).
		With("scan_status", "not_implemented").
		With("note", "stub")
}
