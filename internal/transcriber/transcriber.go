package transcriber

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

// Transcribe runs the shared speech model over file.
// Blank output is returned as a normal result; callers decide what it means.
func (e *implEngine) Transcribe(ctx context.Context, file models.TemporaryAudioFile, languageHint string) (models.TranscriptionResult, error) {
	model, err := e.models.Speech(ctx)
	if err != nil {
		return models.TranscriptionResult{}, models.NewStageError(models.KindTranscription, fmt.Errorf("load speech model: %w", err))
	}

	start := time.Now()
	e.logger.Info(ctx, "Starting transcription (language %s): %s", languageHint, file.Path)

	text, err := model.Transcribe(ctx, file.Path, Options{Language: languageHint})
	if err != nil {
		return models.TranscriptionResult{}, models.NewStageError(models.KindTranscription, err)
	}

	e.logger.Info(ctx, "Transcription completed in %s (%d chars)", time.Since(start).Round(time.Millisecond), len(text))
	return models.TranscriptionResult{Text: text, LanguageHint: languageHint}, nil
}
