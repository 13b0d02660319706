package acquirer

import (
	"context"

	"github.com/nguyentantai21042004/voice-digest/internal/models"
	"github.com/nguyentantai21042004/voice-digest/internal/tempfile"
)

// AllowedExtensions lists the document suffixes accepted as audio
var AllowedExtensions = []string{"m4a", "mp3", "wav", "ogg"}

// Notifier receives the processing-started status before the download begins
type Notifier interface {
	ProcessingStarted(ctx context.Context, msg models.IncomingAudioMessage, durationSeconds int) error
}

// Acquirer validates inbound attachments and materializes them as local files
type Acquirer interface {
	// Validate rejects documents whose filename lacks an allowed extension
	Validate(msg models.IncomingAudioMessage) error
	// Acquire downloads the payload into scope and returns the local file
	Acquire(ctx context.Context, msg models.IncomingAudioMessage, scope *tempfile.Scope) (models.TemporaryAudioFile, error)
}
