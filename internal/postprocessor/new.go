package postprocessor

import (
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
)

type implPostprocessor struct {
	generators GeneratorProvider
	correction bool
	logger     logger.Logger
}

// New creates a Postprocessor. With correction disabled the summary is built
// straight from the raw transcript.
func New(generators GeneratorProvider, correction bool, log logger.Logger) Postprocessor {
	return &implPostprocessor{
		generators: generators,
		correction: correction,
		logger:     log,
	}
}
