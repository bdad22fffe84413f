/**
 * billsense - utility bill analysis service
 *
 * HTTP service that converts utility-bill documents (PDF or scanned image)
 * into normalized BillRecords and turns validated records into
 * schema-constrained advice via the Gemini generation service.
 *
 * Pipeline per request:
 * 1. Text acquisition (PDF text layer, OCR fallback for scans)
 * 2. Tariff classification (TOU / Tiered / Flat-ULO)
 * 3. Field extraction and usage validation
 * 4. Prompt construction + constrained generation + response recovery
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saveawatt/billsense/internal/advice"
	"github.com/saveawatt/billsense/internal/config"
	"github.com/saveawatt/billsense/internal/document"
	"github.com/saveawatt/billsense/internal/logging"
	"github.com/saveawatt/billsense/internal/scorer"
	"github.com/saveawatt/billsense/internal/server"
)

func main() {
	log := logging.New("billsense", "info", false)

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env not found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log = logging.New("billsense", cfg.LogLevel, cfg.LogPretty)
	log.Info().Int("port", cfg.Port).Str("model", cfg.GeminiModel).Msg("configuration loaded")

	// Text acquisition: PDF text layer with Tesseract OCR fallback
	ocr := document.NewTesseractOCR(document.TesseractConfig{
		TessdataPrefix: cfg.TessdataPrefix,
	})
	acquirer := document.NewAcquirer(ocr, log)

	// Advice client against the Gemini generation service; credentials are
	// injected here so nothing reads the environment at call time
	ctx := context.Background()
	advisor, err := advice.NewClient(ctx, advice.ClientConfig{
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		Timeout:         time.Duration(cfg.GenerationTimeoutMs) * time.Millisecond,
		MaxOutputTokens: int32(cfg.MaxOutputTokens),
		Temperature:     float32(cfg.Temperature),
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize advice client")
	}
	defer advisor.Close()

	// Regression scorer: loaded once, concurrently readable
	var sc scorer.Scorer
	if cfg.ScorerWeightsPath != "" {
		linear, err := scorer.LoadLinear(cfg.ScorerWeightsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load scorer weights")
		}
		sc = linear
		log.Info().Str("path", cfg.ScorerWeightsPath).Msg("scorer weights loaded")
	} else {
		sc = scorer.NewDefaultLinear()
		log.Info().Msg("using built-in scorer weights")
	}

	srv := server.New(server.Config{
		TempDir:       cfg.TempDir,
		MaxUploadSize: cfg.MaxUploadSize,
	}, acquirer, advisor, sc, log)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("billsense listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("shutdown complete")
}
