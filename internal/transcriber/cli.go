package transcriber

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

// cliLoader runs whisper-cli once per transcription; loading only checks
// that the binary and weights are present.
type cliLoader struct {
	cfg       config.WhisperConfig
	executor  executor.Executor
	converter *converter
	logger    logger.Logger
	lookPath  func(file string) (string, error)
}

func (l *cliLoader) Load(ctx context.Context, modelSize string) (Model, error) {
	path := modelPath(l.cfg.ModelsDir, modelSize)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("whisper model %s: %w", modelSize, err)
	}
	if _, err := l.lookPath(l.cfg.BinaryPath); err != nil {
		return nil, fmt.Errorf("whisper binary: %w", err)
	}

	l.logger.Info(ctx, "Whisper model ready (cli backend): %s", path)
	return &cliModel{loader: l, modelPath: path}, nil
}

type cliModel struct {
	loader    *cliLoader
	modelPath string
}

func (m *cliModel) Transcribe(ctx context.Context, audioPath string, opts Options) (string, error) {
	l := m.loader

	wavPath, err := l.converter.toWav(ctx, audioPath)
	if err != nil {
		return "", err
	}
	defer cleanupTempFile(ctx, l.logger, wavPath)

	// whisper-cli appends .txt to the output prefix
	outputPrefix := strings.TrimSuffix(wavPath, ".wav")
	txtPath := outputPrefix + ".txt"
	defer cleanupTempFile(ctx, l.logger, txtPath)

	// -otxt: plain text output, -nt: no timestamps
	args := []string{
		"-m", m.modelPath,
		"-f", wavPath,
		"-otxt",
		"-nt",
		"-l", opts.Language,
		"-t", strconv.Itoa(l.cfg.Threads),
		"--output-file", outputPrefix,
	}
	if l.cfg.Prompt != "" {
		args = append(args, "--prompt", l.cfg.Prompt)
	}
	if !l.cfg.UseGPU {
		args = append(args, "-ng")
	}

	if _, err := l.executor.Execute(ctx, l.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}

func (m *cliModel) Close() error {
	return nil
}
