package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

// serverLoader starts a resident whisper-server so the weights stay in memory
// between messages.
type serverLoader struct {
	cfg          config.WhisperConfig
	executor     executor.Executor
	converter    *converter
	logger       logger.Logger
	httpClient   *http.Client
	readyTimeout time.Duration
	pollInterval time.Duration
}

type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func (l *serverLoader) Load(ctx context.Context, modelSize string) (Model, error) {
	path := modelPath(l.cfg.ModelsDir, modelSize)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("whisper model %s: %w", modelSize, err)
	}

	addr := net.JoinHostPort(l.cfg.ServerHost, strconv.Itoa(l.cfg.ServerPort))
	args := []string{
		"-m", path,
		"--host", l.cfg.ServerHost,
		"--port", strconv.Itoa(l.cfg.ServerPort),
		"-t", strconv.Itoa(l.cfg.Threads),
	}
	if !l.cfg.UseGPU {
		args = append(args, "-ng")
	}

	l.logger.Info(ctx, "Starting whisper-server on %s with model %s", addr, path)

	// the server outlives the invocation that triggered the load
	proc, err := l.executor.Start(context.WithoutCancel(ctx), l.cfg.ServerBinaryPath, args...)
	if err != nil {
		return nil, fmt.Errorf("start whisper-server: %w", err)
	}

	hc := l.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Minute}
	}
	m := &serverModel{
		baseURL:    "http://" + addr,
		proc:       proc,
		httpClient: hc,
		converter:  l.converter,
		logger:     l.logger,
	}

	if err := m.waitReady(ctx, l.readyTimeout, l.pollInterval); err != nil {
		_ = proc.Stop()
		return nil, err
	}

	l.logger.Info(ctx, "Whisper model ready (server backend): %s", path)
	return m, nil
}

type serverModel struct {
	baseURL    string
	proc       executor.Process
	httpClient *http.Client
	converter  *converter
	logger     logger.Logger
}

// waitReady polls the server root until it answers, the process dies or the timeout passes
func (m *serverModel) waitReady(ctx context.Context, timeout, interval time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe := &http.Client{Timeout: interval + time.Second}
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/", nil)
		if err != nil {
			return fmt.Errorf("build readiness probe: %w", err)
		}
		if resp, err := probe.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode < http.StatusInternalServerError {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.proc.Exited():
			return fmt.Errorf("whisper-server exited during startup: %v", m.proc.Err())
		case <-deadline.C:
			return fmt.Errorf("whisper-server not ready after %s", timeout)
		case <-ticker.C:
		}
	}
}

func (m *serverModel) Transcribe(ctx context.Context, audioPath string, opts Options) (string, error) {
	wavPath, err := m.converter.toWav(ctx, audioPath)
	if err != nil {
		return "", err
	}
	defer cleanupTempFile(ctx, m.logger, wavPath)

	body, contentType, err := m.createMultipartRequest(wavPath, opts)
	if err != nil {
		return "", fmt.Errorf("create multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/inference", body)
	if err != nil {
		return "", fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	var out inferenceResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("parse inference response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("whisper-server: %s", out.Error)
	}
	return out.Text, nil
}

func (m *serverModel) createMultipartRequest(wavPath string, opts Options) (io.Reader, string, error) {
	audio, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", wavPath, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fw, err := writer.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return nil, "", fmt.Errorf("write audio data: %w", err)
	}

	fields := map[string]string{
		"response_format": "json",
		"temperature":     "0.0",
	}
	if opts.Language != "" {
		fields["language"] = opts.Language
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func (m *serverModel) Close() error {
	return m.proc.Stop()
}
