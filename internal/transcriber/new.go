package transcriber

import (
	"fmt"
	osexec "os/exec"
	"time"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

type implEngine struct {
	models ModelProvider
	logger logger.Logger
}

// New creates the Engine used by the pipeline
func New(models ModelProvider, log logger.Logger) Engine {
	return &implEngine{models: models, logger: log}
}

// NewLoader picks the whisper.cpp backend named in cfg
func NewLoader(cfg *config.Config, exec executor.Executor, log logger.Logger) (Loader, error) {
	conv := &converter{
		executor:   exec,
		binary:     cfg.FFmpeg.BinaryPath,
		sampleRate: cfg.FFmpeg.SampleRate,
		logger:     log,
	}

	switch cfg.Whisper.Backend {
	case "cli", "":
		return &cliLoader{
			cfg:       cfg.Whisper,
			executor:  exec,
			converter: conv,
			logger:    log,
			lookPath:  osexec.LookPath,
		}, nil
	case "server":
		return &serverLoader{
			cfg:          cfg.Whisper,
			executor:     exec,
			converter:    conv,
			logger:       log,
			readyTimeout: 2 * time.Minute,
			pollInterval: 500 * time.Millisecond,
		}, nil
	default:
		return nil, fmt.Errorf("transcriber: unknown backend %q (supported: cli, server)", cfg.Whisper.Backend)
	}
}
