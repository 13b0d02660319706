package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

type converter struct {
	executor   executor.Executor
	binary     string
	sampleRate int
	logger     logger.Logger
}

// toWav converts any input ffmpeg understands (m4a, mp3, ogg/opus, wav) to
// 16kHz mono PCM WAV, the format whisper.cpp expects. The caller removes the result.
func (c *converter) toWav(ctx context.Context, audioPath string) (string, error) {
	wavPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + "_16k.wav"

	c.logger.Debug(ctx, "Normalizing audio: %s -> %s", audioPath, wavPath)

	// -vn: drop any cover art or video stream
	// -ar/-ac: whisper.cpp only accepts 16kHz mono
	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", strconv.Itoa(c.sampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}

	if _, err := c.executor.Execute(ctx, c.binary, args...); err != nil {
		removeQuietly(wavPath)
		return "", fmt.Errorf("ffmpeg convert audio: %w", err)
	}

	return wavPath, nil
}

// cleanupTempFile removes a derived file, logs warning if fails
func cleanupTempFile(ctx context.Context, log logger.Logger, filePath string) {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	}
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}

// modelPath resolves the ggml weights for a size such as "small" or "tiny"
func modelPath(dir, size string) string {
	return filepath.Join(dir, "ggml-"+size+".bin")
}
