package postprocessor

import (
	"context"

	"github.com/nguyentantai21042004/voice-digest/internal/llm"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

// GeneratorProvider hands out the process-wide generative client
type GeneratorProvider interface {
	Generator(ctx context.Context) (llm.Client, error)
}

// Postprocessor turns a raw transcript into the final report
type Postprocessor interface {
	// Process runs the correction pass when enabled, then summarization.
	// Any failure is a generative error that does not say which pass failed.
	Process(ctx context.Context, result models.TranscriptionResult) (models.SummaryReport, error)
}
