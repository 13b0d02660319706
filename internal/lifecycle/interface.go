// Package lifecycle owns the process-wide model handles.
//
// Each model moves from unloaded to loaded at most once. A failed load
// leaves the slot unloaded so a later call can try again.
package lifecycle

import (
	"context"

	"github.com/nguyentantai21042004/voice-digest/internal/llm"
)

// GeneratorFactory builds the generative client
type GeneratorFactory func(ctx context.Context) (llm.Client, error)

// Model names used in logs and metrics
const (
	ModelSpeech    = "speech"
	ModelGenerator = "generator"
)
