package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

// Options tune a single transcription call
type Options struct {
	Language string
}

// Model is a loaded speech-to-text model handle
type Model interface {
	Transcribe(ctx context.Context, filePath string, opts Options) (string, error)
	Close() error
}

// Loader loads a model by size ("tiny", "small", ...). Loading may be slow.
type Loader interface {
	Load(ctx context.Context, modelSize string) (Model, error)
}

// ModelProvider hands out the process-wide speech model
type ModelProvider interface {
	Speech(ctx context.Context) (Model, error)
}

// Engine converts an acquired audio file to text
type Engine interface {
	Transcribe(ctx context.Context, file models.TemporaryAudioFile, languageHint string) (models.TranscriptionResult, error)
}
