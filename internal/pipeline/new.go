package pipeline

import (
	"github.com/nguyentantai21042004/voice-digest/internal/acquirer"
	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/metrics"
	"github.com/nguyentantai21042004/voice-digest/internal/postprocessor"
	"github.com/nguyentantai21042004/voice-digest/internal/reply"
	"github.com/nguyentantai21042004/voice-digest/internal/transcriber"
	"golang.org/x/sync/semaphore"
)

type implHandler struct {
	opts          Options
	acquirer      acquirer.Acquirer
	transcriber   transcriber.Engine
	postprocessor postprocessor.Postprocessor
	sender        reply.Sender
	logger        logger.Logger
	metrics       *metrics.Metrics
	sem           *semaphore.Weighted
}

// New creates a Handler. At most opts.MaxConcurrent messages run at once;
// the rest wait for a free slot.
func New(
	opts Options,
	acq acquirer.Acquirer,
	engine transcriber.Engine,
	post postprocessor.Postprocessor,
	sender reply.Sender,
	log logger.Logger,
	m *metrics.Metrics,
) Handler {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}

	return &implHandler{
		opts:          opts,
		acquirer:      acq,
		transcriber:   engine,
		postprocessor: post,
		sender:        sender,
		logger:        log,
		metrics:       m,
		sem:           semaphore.NewWeighted(int64(opts.MaxConcurrent)),
	}
}

// OptionsFromConfig collects the pipeline options from cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Language:       cfg.Whisper.Language,
		EchoTranscript: cfg.Pipeline.EchoTranscript,
		TempDir:        cfg.Paths.Temp,
		MaxConcurrent:  cfg.Performance.MaxConcurrent,
	}
}
