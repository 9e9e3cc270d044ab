package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ekaraca/voicebrief/internal/audio"
	"github.com/ekaraca/voicebrief/internal/config"
	"github.com/ekaraca/voicebrief/internal/logger"
	"github.com/ekaraca/voicebrief/internal/processor"
	"github.com/ekaraca/voicebrief/internal/ratelimit"
	"github.com/ekaraca/voicebrief/internal/scratch"
	"github.com/ekaraca/voicebrief/internal/server"
	"github.com/ekaraca/voicebrief/internal/summarizer"
	"github.com/ekaraca/voicebrief/internal/transcriber"
	"github.com/ekaraca/voicebrief/pkg/httpclient"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "voicebrief: transcribe and summarize")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Summary provider: %s", cfg.Summary.Service)
	log.Info(ctx, "Transcription key: %s", logger.Redact(cfg.AssemblyAI.APIKey))
	log.Info(ctx, "Max file size: %d MB, rate limit: %d/hour", cfg.Limits.MaxFileSizeMB, cfg.Limits.MaxRequestsPerHour)

	limiter, closeDB, err := buildLimiter(cfg)
	if err != nil {
		log.Error(ctx, "Failed to init rate limiter: %v", err)
		os.Exit(1)
	}
	defer closeDB()

	store, err := scratch.NewStore(cfg.Paths.Scratch, log)
	if err != nil {
		log.Error(ctx, "Failed to init scratch store: %v", err)
		os.Exit(1)
	}

	janitor, err := scratch.NewJanitor(cfg.Paths.Scratch, 2*time.Hour, 15*time.Minute, log)
	if err != nil {
		log.Error(ctx, "Failed to init scratch janitor: %v", err)
		os.Exit(1)
	}
	defer janitor.Stop()

	// Large uploads to the transcription provider can be slow; summaries
	// are a single round trip.
	transcribeCaller := httpclient.New(10 * time.Minute)
	summaryCaller := httpclient.New(2 * time.Minute)

	sm, err := summarizer.New(cfg.Summary, summaryCaller, log)
	if err != nil {
		log.Error(ctx, "Failed to init summarizer: %v", err)
		os.Exit(1)
	}

	proc := processor.New(
		limiter,
		audio.New(cfg.MaxFileSizeBytes(), log),
		store,
		transcriber.New(cfg.AssemblyAI, transcribeCaller, log),
		sm,
		log,
		cfg.Performance.MaxConcurrent,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(proc, cfg.MaxFileSizeBytes(), log).Handler(),
		// A pipeline request legitimately stays open for the whole poll
		// budget, so no write timeout here.
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := janitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, "Janitor stopped: %v", err)
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info(ctx, "Listening on %s", cfg.Server.Addr)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "Shutdown error: %v", err)
	}

	log.Info(ctx, "voicebrief stopped")
}

// buildLimiter picks the durable sqlite limiter when a db path is
// configured, otherwise the in-memory one.
func buildLimiter(cfg *config.Config) (ratelimit.Limiter, func(), error) {
	if cfg.Paths.RateLimitDB == "" {
		return ratelimit.NewMemory(cfg.Limits.MaxRequestsPerHour), func() {}, nil
	}

	db, err := sql.Open("sqlite3", "file:"+cfg.Paths.RateLimitDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open rate limit db: %w", err)
	}

	if _, err := db.Exec(`
	PRAGMA busy_timeout  = 10000;
	PRAGMA journal_mode  = WAL;
	PRAGMA synchronous   = NORMAL;
	PRAGMA temp_store    = MEMORY;`); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("configure rate limit db: %w", err)
	}

	limiter, err := ratelimit.NewSQLite(db, cfg.Limits.MaxRequestsPerHour)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return limiter, func() { db.Close() }, nil
}
