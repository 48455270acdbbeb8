package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Env      string
	Server   ServerConfig
	LLM      LLMConfig
	Jobs     JobsConfig
	Pipeline PipelineConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
}

// LLMConfig holds enrichment-model configuration
type LLMConfig struct {
	APIKey     string
	BaseURL    string
	ModelFlash string
	ModelPro   string
	Timeout    time.Duration
}

// JobsConfig holds job-store and worker configuration
type JobsConfig struct {
	DSN       string
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// PipelineConfig holds pipeline behavior knobs
type PipelineConfig struct {
	TargetRoleDefault string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Env: getEnv("APP_ENV", "dev"),
		Server: ServerConfig{
			Addr:           getEnv("SERVER_ADDR", ":8080"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
		},
		LLM: LLMConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			BaseURL:    getEnv("GEMINI_BASE_URL", ""),
			ModelFlash: getEnv("GEMINI_MODEL_FLASH", "gemini-2.5-flash"),
			ModelPro:   getEnv("GEMINI_MODEL_PRO", "gemini-2.5-pro"),
			Timeout:    getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		},
		Jobs: JobsConfig{
			DSN:       getEnv("JOBS_DSN", ":memory:"),
			Workers:   getEnvAsInt("QUEUE_WORKERS", 4),
			QueueSize: getEnvAsInt("QUEUE_SIZE", 256),
			Timeout:   getEnvAsDuration("JOB_TIMEOUT", 2*time.Minute),
		},
		Pipeline: PipelineConfig{
			TargetRoleDefault: getEnv("TARGET_ROLE_DEFAULT", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "SERVER_ADDR is required", ErrInvalidInput)
	}
	if c.Jobs.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "QUEUE_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
