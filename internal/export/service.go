// Package export produces XLSX workbooks of completed parse jobs.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/careerforge/resume-parser/constants"
	"github.com/careerforge/resume-parser/internal/fields"
	"github.com/careerforge/resume-parser/internal/jobs"
	"github.com/careerforge/resume-parser/internal/pipeline"
)

// Service is a tiny façade over the job store that produces XLSX bytes for exports.
type Service struct {
	store  *jobs.Store
	logger *slog.Logger
}

func NewService(store *jobs.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportCompletedXLSX returns an XLSX workbook (as bytes) of all completed jobs:
// one row per resume with the headline fields and the three quality scores.
func (s *Service) ExportCompletedXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.store.ListByStatus(ctx, constants.JobStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Resumes"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Job ID",
		"File Name",
		"Received At",
		"Name",
		"Email",
		"Phone",
		"Location",
		"Role",
		"Experience",
		"Readability",
		"ATS",
		"Match",
		"Model Used",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, j := range recs {
		var res pipeline.Result
		if err := json.Unmarshal(j.ResultJSON, &res); err != nil {
			s.logger.Warn("export.bad_result_json", "job_id", j.ID, "error", err)
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, j.ID.String())
		write(2, j.FileName)
		write(3, j.ReceivedAt.Format("2006-01-02 15:04:05"))
		write(4, fieldString(res.Fields, constants.FieldName))
		write(5, fieldString(res.Fields, constants.FieldEmail))
		write(6, fieldString(res.Fields, constants.FieldPhone))
		write(7, fieldString(res.Fields, constants.FieldLocation))
		write(8, fieldString(res.Fields, constants.FieldRole))
		write(9, fieldString(res.Fields, constants.FieldExperience))
		write(10, res.Scores.Readability)
		write(11, res.Scores.ATS)
		write(12, res.Scores.Match)
		write(13, j.ModelUsed)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.ok", "rows", row-2, "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func fieldString(m fields.FieldMap, name string) string {
	if v, ok := m[name]; ok {
		return v.StringValue()
	}
	return ""
}
