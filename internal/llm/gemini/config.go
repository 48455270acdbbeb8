package gemini

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Gemini client.
type Config struct {
	APIKey     string        // if empty, falls back to env GEMINI_API_KEY
	BaseURL    string        // default https://generativelanguage.googleapis.com/v1beta
	ModelFlash string        // default model, e.g. "gemini-2.5-flash"
	Timeout    time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.ModelFlash == "" {
		cfg.ModelFlash = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether the client has an API key and can be used at all.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Model returns the model that would serve a request with the given override.
func (c *Client) Model(override string) string {
	if override != "" {
		return override
	}
	return c.cfg.ModelFlash
}
