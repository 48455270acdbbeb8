package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/resume-parser/internal/llm"
)

func generateContentResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
			},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: ts.URL, ModelFlash: "gemini-2.5-flash"}, nil)
}

func TestExtractFieldsOK(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(generateContentResponse(
			`{"fields": {"role": {"value": "Senior Engineer", "confidence": 0.95}}}`))
	})

	m, ok := c.ExtractFields(context.Background(), llm.ExtractRequest{DocumentText: "resume text"})
	require.True(t, ok)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "Senior Engineer", m["role"].Value())
}

func TestExtractFieldsModelOverride(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(generateContentResponse(`{"fields": {}}`))
	})

	_, ok := c.ExtractFields(context.Background(), llm.ExtractRequest{
		DocumentText:  "text",
		ModelOverride: "gemini-2.5-pro",
	})
	require.True(t, ok)
	assert.Equal(t, "/models/gemini-2.5-pro:generateContent", gotPath)
}

func TestExtractFieldsAbsentWithoutKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	c := NewClient(Config{BaseURL: "http://localhost:1"}, nil)
	_, ok := c.ExtractFields(context.Background(), llm.ExtractRequest{DocumentText: "text"})
	assert.False(t, ok)
}

func TestExtractFieldsAbsentOnNon2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	_, ok := c.ExtractFields(context.Background(), llm.ExtractRequest{DocumentText: "text"})
	assert.False(t, ok)
}

func TestExtractFieldsAbsentOnGarbageBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	_, ok := c.ExtractFields(context.Background(), llm.ExtractRequest{DocumentText: "text"})
	assert.False(t, ok)
}

func TestExtractFieldsAbsentOnProseWithoutJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(generateContentResponse("I cannot parse this resume, sorry."))
	})
	_, ok := c.ExtractFields(context.Background(), llm.ExtractRequest{DocumentText: "text"})
	assert.False(t, ok)
}

func TestExtractFieldsAbsentOnSchemaMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// confidence out of range
		_ = json.NewEncoder(w).Encode(generateContentResponse(
			`{"fields": {"role": {"value": "x", "confidence": 7}}}`))
	})
	_, ok := c.ExtractFields(context.Background(), llm.ExtractRequest{DocumentText: "text"})
	assert.False(t, ok)
}

func TestExtractFieldsTruncatesDocument(t *testing.T) {
	var gotLen int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Len(t, body.Contents[0].Parts, 2)
		gotLen = len(body.Contents[0].Parts[1].Text)
		_ = json.NewEncoder(w).Encode(generateContentResponse(`{"fields": {}}`))
	})

	big := make([]byte, llm.MaxDocumentChars+500)
	for i := range big {
		big[i] = 'a'
	}
	_, ok := c.ExtractFields(context.Background(), llm.ExtractRequest{DocumentText: string(big)})
	require.True(t, ok)
	// "Resume text:\n" prefix plus the truncated budget.
	assert.Equal(t, len("Resume text:\n")+llm.MaxDocumentChars, gotLen)
}
