// Command parsefile runs the full parse pipeline on a local file and prints the
// result as JSON. Useful for eyeballing recognizer output without the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/careerforge/resume-parser/internal/common"
	"github.com/careerforge/resume-parser/internal/extract"
	"github.com/careerforge/resume-parser/internal/llm"
	"github.com/careerforge/resume-parser/internal/llm/gemini"
	"github.com/careerforge/resume-parser/internal/pipeline"
)

func main() {
	var (
		role  = flag.String("role", "", "target role for the match score")
		model = flag.String("model", "", "enrichment model override")
		mime  = flag.String("mime", "", "declared MIME type")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if flag.NArg() < 1 {
		logger.Error("usage: parsefile [-role ROLE] [-model MODEL] [-mime MIME] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	var enricher llm.FieldExtractor
	if cfg.LLM.APIKey != "" {
		enricher = gemini.NewClient(gemini.Config{
			APIKey:     cfg.LLM.APIKey,
			BaseURL:    cfg.LLM.BaseURL,
			ModelFlash: cfg.LLM.ModelFlash,
			Timeout:    cfg.LLM.Timeout,
		}, logger)
	}

	runner := pipeline.NewRunner(extract.NewExtractor(logger), enricher, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	result, stats := runner.Run(ctx, pipeline.Input{
		Data:          data,
		FileName:      path,
		MIMEType:      *mime,
		TargetRole:    *role,
		ModelOverride: *model,
	})
	logger.Info("pipeline.run.ok",
		"path", path,
		"blocked", stats.Blocked,
		"enriched", stats.Enriched,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
