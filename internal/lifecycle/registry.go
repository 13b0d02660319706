package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/llm"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/metrics"
	"github.com/nguyentantai21042004/voice-digest/internal/transcriber"
)

// Registry holds the speech model and the generative client shared by all invocations.
// It satisfies transcriber.ModelProvider and postprocessor.GeneratorProvider.
type Registry struct {
	speech    slot[transcriber.Model]
	generator slot[llm.Client]
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// New creates a Registry with both slots unloaded
func New(loader transcriber.Loader, modelSize string, newGenerator GeneratorFactory, log logger.Logger, m *metrics.Metrics) *Registry {
	r := &Registry{logger: log, metrics: m}

	r.speech.load = func(ctx context.Context) (transcriber.Model, error) {
		var model transcriber.Model
		err := r.observe(ctx, ModelSpeech, func() error {
			var err error
			model, err = loader.Load(ctx, modelSize)
			return err
		})
		return model, err
	}
	r.generator.load = func(ctx context.Context) (llm.Client, error) {
		var client llm.Client
		err := r.observe(ctx, ModelGenerator, func() error {
			var err error
			client, err = newGenerator(ctx)
			return err
		})
		return client, err
	}

	return r
}

// NewFromConfig wires the generator slot to llm.New with cfg.LLM
func NewFromConfig(cfg *config.Config, loader transcriber.Loader, log logger.Logger, m *metrics.Metrics) *Registry {
	return New(loader, cfg.Whisper.ModelSize, func(ctx context.Context) (llm.Client, error) {
		return llm.New(ctx, cfg.LLM, log)
	}, log, m)
}

func (r *Registry) observe(ctx context.Context, name string, load func() error) error {
	r.logger.Info(ctx, "Loading %s model", name)
	start := time.Now()

	err := load()
	r.metrics.ObserveModelLoad(name, start, err)
	if err != nil {
		r.logger.Error(ctx, "Failed to load %s model: %v", name, err)
		return fmt.Errorf("load %s model: %w", name, err)
	}

	r.logger.Info(ctx, "Loaded %s model in %v", name, time.Since(start).Round(time.Millisecond))
	return nil
}

// Speech returns the speech model, loading it on first use
func (r *Registry) Speech(ctx context.Context) (transcriber.Model, error) {
	return r.speech.get(ctx)
}

// Generator returns the generative client, loading it on first use
func (r *Registry) Generator(ctx context.Context) (llm.Client, error) {
	return r.generator.get(ctx)
}

// Preload loads both models up front. Used by the always-on worker, which
// must not accept messages before both are ready.
func (r *Registry) Preload(ctx context.Context) error {
	if _, err := r.Speech(ctx); err != nil {
		return err
	}
	if _, err := r.Generator(ctx); err != nil {
		return err
	}
	return nil
}

// Loads reports how many load attempts each slot has made
func (r *Registry) Loads() (speech, generator int64) {
	return r.speech.loads.Load(), r.generator.loads.Load()
}

// Close releases the speech model if it was loaded
func (r *Registry) Close() error {
	model, ok := r.speech.peek()
	if !ok || model == nil {
		return nil
	}
	return model.Close()
}
