package acquirer

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/nguyentantai21042004/voice-digest/internal/models"
	"github.com/nguyentantai21042004/voice-digest/internal/tempfile"
)

// fallbackExtension is used when the remote path has no suffix; voice notes are ogg/opus
const fallbackExtension = "ogg"

func (a *implAcquirer) Validate(msg models.IncomingAudioMessage) error {
	if msg.Attachment == nil {
		return models.NewStageError(models.KindValidation, fmt.Errorf("message %d has no attachment", msg.MessageID))
	}
	if msg.Attachment.ContentType() != models.ContentDocument {
		return nil
	}

	name := models.Normalize(msg.Attachment).FileName
	if !hasAllowedExtension(name) {
		return models.NewStageError(models.KindValidation, fmt.Errorf("unsupported document %q", name))
	}
	return nil
}

func (a *implAcquirer) Acquire(ctx context.Context, msg models.IncomingAudioMessage, scope *tempfile.Scope) (models.TemporaryAudioFile, error) {
	ref := models.Normalize(msg.Attachment)

	// only a reported duration yields a wait estimate
	duration := 0
	if ref.HasDuration() {
		duration = ref.Duration
	}
	if err := a.notifier.ProcessingStarted(ctx, msg, duration); err != nil {
		a.logger.Warn(ctx, "Processing-started status not delivered: %v", err)
	}

	fd, err := a.client.FetchFileDescriptor(ctx, ref.FileID)
	if err != nil {
		return models.TemporaryAudioFile{}, acquisitionError(fmt.Errorf("fetch file descriptor: %w", err))
	}

	data, err := a.client.DownloadBinary(ctx, fd.Path)
	if err != nil {
		return models.TemporaryAudioFile{}, acquisitionError(fmt.Errorf("download: %w", err))
	}

	ext := extensionOf(fd.Path)
	filePath, err := scope.Path(fmt.Sprintf("audio_%d_%d.%s", msg.ChatID, msg.MessageID, ext))
	if err != nil {
		return models.TemporaryAudioFile{}, acquisitionError(err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return models.TemporaryAudioFile{}, acquisitionError(fmt.Errorf("write %s: %w", filePath, err))
	}

	a.logger.Info(ctx, "Acquired %s payload for message %d: %s (%d bytes)",
		msg.Attachment.ContentType(), msg.MessageID, filePath, len(data))

	return models.TemporaryAudioFile{Path: filePath, Extension: ext, MessageID: msg.MessageID}, nil
}

func acquisitionError(err error) error {
	return models.NewStageError(models.KindAcquisition, err)
}

// hasAllowedExtension is a case-sensitive suffix match against AllowedExtensions
func hasAllowedExtension(name string) bool {
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(name, "."+ext) {
			return true
		}
	}
	return false
}

// extensionOf returns the suffix of the remote path without the dot
func extensionOf(remote string) string {
	ext := strings.TrimPrefix(path.Ext(remote), ".")
	if ext == "" {
		return fallbackExtension
	}
	return ext
}
