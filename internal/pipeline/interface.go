// Package pipeline runs one inbound audio message through acquisition,
// transcription, postprocessing and reply delivery.
package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

// Handler processes inbound audio messages. It is safe for concurrent use.
type Handler interface {
	// HandleMessage runs the whole chain for msg. ctx is honoured only while
	// waiting for a free slot; once started the run completes even if ctx is
	// cancelled. A returned *models.StageError has already been reported to
	// the user with exactly one reply. Any other error means the message was
	// never started.
	HandleMessage(ctx context.Context, msg models.IncomingAudioMessage) error
}

// Options holds the per-deployment knobs of the pipeline
type Options struct {
	Language       string
	EchoTranscript bool
	TempDir        string
	MaxConcurrent  int
}
