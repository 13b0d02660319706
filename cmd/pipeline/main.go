package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/voice-digest/internal/acquirer"
	"github.com/nguyentantai21042004/voice-digest/internal/app"
	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/messenger/folder"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
	"github.com/nguyentantai21042004/voice-digest/internal/pipeline"
	"github.com/nguyentantai21042004/voice-digest/internal/watcher"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, log, err := app.LoadConfig(configPath(), os.Stdout, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireLLM(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Voice Digest Pipeline (folder mode)")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		return err
	}

	endpoint := folder.New(cfg.Paths.Output, log)
	a, err := app.New(cfg, endpoint, executor.New(), log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer a.Close(context.WithoutCancel(ctx))

	if !cfg.Pipeline.LazyModels {
		if err := a.Preload(ctx); err != nil {
			return err
		}
	}

	w, err := watcher.New(cfg.Paths.Input, acquirer.AllowedExtensions, handleFile(endpoint, a.Pipeline), log)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "  - Whisper: %s backend, model %s, %d threads", cfg.Whisper.Backend, cfg.Whisper.ModelSize, cfg.Whisper.Threads)
	log.Info(ctx, "  - LLM: %s %s, correction %v", cfg.LLM.Provider, cfg.LLM.Model, cfg.Pipeline.CorrectionEnabled())
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher: %w", err)
	}

	log.Info(context.WithoutCancel(ctx), "Pipeline stopped")
	return nil
}

// handleFile runs one dropped file through the pipeline as its own conversation
func handleFile(endpoint *folder.Endpoint, handler pipeline.Handler) watcher.EventHandler {
	return func(ctx context.Context, filePath string) error {
		msg := endpoint.Register(filePath)

		err := handler.HandleMessage(ctx, msg)
		if err != nil && models.KindOf(err) == 0 {
			// never started; leave the file for the next run
			endpoint.Abandon(msg)
			return err
		}

		endpoint.Finish(ctx, msg)
		return nil
	}
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
