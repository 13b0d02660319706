// Package app assembles the pipeline from configuration.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/nguyentantai21042004/voice-digest/internal/acquirer"
	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/lifecycle"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/messenger"
	"github.com/nguyentantai21042004/voice-digest/internal/metrics"
	"github.com/nguyentantai21042004/voice-digest/internal/pipeline"
	"github.com/nguyentantai21042004/voice-digest/internal/postprocessor"
	"github.com/nguyentantai21042004/voice-digest/internal/reply"
	"github.com/nguyentantai21042004/voice-digest/internal/transcriber"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

// App is the wired pipeline plus the shared pieces the entry points need
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Models   *lifecycle.Registry
	Sender   reply.Sender
	Pipeline pipeline.Handler
}

// LoadConfig loads .env files, then the YAML config, and builds the logger it describes
func LoadConfig(path string, out io.Writer, envFiles ...string) (*config.Config, logger.Logger, error) {
	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, out), nil
}

// New wires every stage against client
func New(cfg *config.Config, client messenger.Client, exec executor.Executor, log logger.Logger) (*App, error) {
	loader, err := transcriber.NewLoader(cfg, exec, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	models := lifecycle.NewFromConfig(cfg, loader, log, m)

	sender := reply.New(client, log)
	acq := acquirer.New(client, sender, log)
	engine := transcriber.New(models, log)
	post := postprocessor.New(models, cfg.Pipeline.CorrectionEnabled(), log)

	handler := pipeline.New(pipeline.OptionsFromConfig(cfg), acq, engine, post, sender, log, m)

	return &App{
		Config:   cfg,
		Logger:   log,
		Metrics:  m,
		Models:   models,
		Sender:   sender,
		Pipeline: handler,
	}, nil
}

// Preload loads both models before any message is accepted
func (a *App) Preload(ctx context.Context) error {
	a.Logger.Info(ctx, "Preloading models (whisper %s, %s %s)", a.Config.Whisper.ModelSize, a.Config.LLM.Provider, a.Config.LLM.Model)
	if err := a.Models.Preload(ctx); err != nil {
		return fmt.Errorf("preload models: %w", err)
	}
	return nil
}

// Close releases the loaded models
func (a *App) Close(ctx context.Context) {
	if err := a.Models.Close(); err != nil {
		a.Logger.Warn(ctx, "Failed to close speech model: %v", err)
	}
}
