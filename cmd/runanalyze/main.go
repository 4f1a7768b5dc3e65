package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/medverify/credscan/internal/analysis"
	"github.com/medverify/credscan/internal/common"
	"github.com/medverify/credscan/internal/extract"
	"github.com/medverify/credscan/internal/ocr"
)

// runanalyze extracts and analyzes a single local document without the HTTP
// server: runanalyze <file>
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runanalyze <file>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	engine := ocr.NewTesseractEngine(cfg.OCR.Language, cfg.OCR.DPI)
	extractor := extract.NewExtractor(extract.Config{
		DPI:      cfg.OCR.DPI,
		MaxPages: cfg.OCR.MaxPages,
	}, engine, logger)
	analyzer := analysis.NewAnalyzer(analysis.NewStateTable(), analysis.NewProseTagger(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	res, err := extractor.Extract(ctx, path)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err)
		os.Exit(1)
	}
	if strings.TrimSpace(res.Text) == "" {
		logger.Error("no text extracted", "path", path, "method", res.Method)
		os.Exit(1)
	}

	ar := analyzer.Analyze(res.Text)
	logger.Info("analysis OK",
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out, err := json.MarshalIndent(map[string]any{
		"provider":       ar.Provider.Value,
		"documentName":   ar.DocumentName,
		"documentType":   ar.DocType.Value,
		"category":       ar.DocType.Value,
		"expirationDate": ar.Expiration.Value,
		"stateCode":      ar.State.Value,
		"confidence_scores": map[string]float32{
			"state":    ar.State.Confidence,
			"provider": ar.Provider.Confidence,
			"type":     ar.DocType.Confidence,
			"date":     ar.Expiration.Confidence,
		},
	}, "", "  ")
	if err != nil {
		logger.Error("marshal result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
