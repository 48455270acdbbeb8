// Package gemini implements llm.FieldExtractor against the Gemini generateContent
// REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careerforge/resume-parser/constants"
	"github.com/careerforge/resume-parser/internal/fields"
	"github.com/careerforge/resume-parser/internal/llm"
)

// ExtractFields implements llm.FieldExtractor. Every failure mode (missing key,
// transport error, non-2xx, unparseable body, schema mismatch) collapses to
// (nil, false); the caller treats that as "no remote fields available".
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (fields.FieldMap, bool) {
	rid := uuid.New().String()
	start := time.Now()

	if !c.Configured() {
		c.logger.Debug("gemini.extract.skipped", "req_id", rid, "reason", "no api key")
		return nil, false
	}

	model := c.Model(req.ModelOverride)
	text := llm.Truncate(req.DocumentText)

	c.logger.Info("gemini.extract.start",
		"req_id", rid,
		"model", model,
		"text_len", len(text),
	)

	body := map[string]any{
		"contents": []map[string]any{
			{
				"role": "user",
				"parts": []map[string]any{
					{"text": systemPrompt()},
					{"text": "Resume text:\n" + text},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 1024,
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(model), url.QueryEscape(c.cfg.APIKey))

	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Warn("gemini.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, false
	}

	var gc struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &gc); err != nil || len(gc.Candidates) == 0 {
		c.logger.Warn("gemini.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, false
	}

	var sb strings.Builder
	for _, p := range gc.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	parsed, ok := llm.ExtractJSONObject(sb.String())
	if !ok {
		c.logger.Warn("gemini.extract.no_json", "req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, false
	}
	fieldsObj, ok := parsed["fields"].(map[string]any)
	if !ok {
		c.logger.Warn("gemini.extract.no_fields_object", "req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, false
	}

	payload, err := json.Marshal(fieldsObj)
	if err != nil {
		return nil, false
	}
	if err := llm.ValidateJSONAgainstSchema(llm.BuildFieldsJSONSchema(), payload); err != nil {
		c.logger.Warn("gemini.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, false
	}
	out, err := llm.DecodeFieldMap(payload)
	if err != nil {
		c.logger.Warn("gemini.extract.unmarshal_failed", "req_id", rid, "error", err)
		return nil, false
	}

	c.logger.Info("gemini.extract.ok",
		"req_id", rid,
		"model", model,
		"fields", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, true
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("gemini response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

// systemPrompt asks for strict JSON over the canonical field set.
func systemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a resume parser. Extract structured fields and return ONLY valid JSON matching this schema:\n{\n  \"fields\": {\n")
	for i, name := range constants.ModelFields {
		sb.WriteString(fmt.Sprintf("    %q: {\"value\": \"\", \"confidence\": 0.0}", name))
		if i < len(constants.ModelFields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  }\n}\nUse empty strings for unknown values and low confidence (0.1-0.4). Confidence is 0-1.")
	return sb.String()
}
