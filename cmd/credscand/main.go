package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/medverify/credscan/internal/analysis"
	"github.com/medverify/credscan/internal/common"
	"github.com/medverify/credscan/internal/extract"
	"github.com/medverify/credscan/internal/ocr"
	"github.com/medverify/credscan/internal/server"
)

func main() {
	cfg := common.LoadConfig()

	level := slog.LevelInfo
	if cfg.Server.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Error("create upload dir", "dir", cfg.Upload.Dir, "error", err)
		os.Exit(1)
	}

	// Read-only shared state, built once and injected.
	states := analysis.NewStateTable()
	tagger := analysis.NewProseTagger()
	analyzer := analysis.NewAnalyzer(states, tagger, logger)

	engine := ocr.NewTesseractEngine(cfg.OCR.Language, cfg.OCR.DPI)
	extractor := extract.NewExtractor(extract.Config{
		DPI:      cfg.OCR.DPI,
		MaxPages: cfg.OCR.MaxPages,
	}, engine, logger)

	srv := server.New(cfg, extractor, analyzer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := srv.Listen(); err != nil {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	if err := srv.Shutdown(); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
