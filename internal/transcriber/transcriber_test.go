package transcriber

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

func writeModel(t *testing.T, dir, size string) {
	t.Helper()
	if err := os.WriteFile(modelPath(dir, size), []byte("ggml"), 0644); err != nil {
		t.Fatal(err)
	}
}

func newCLILoader(exec *fakeExecutor, modelsDir string) *cliLoader {
	log := logger.New("error")
	return &cliLoader{
		cfg: config.WhisperConfig{
			BinaryPath: "whisper-cli",
			ModelsDir:  modelsDir,
			Threads:    2,
		},
		executor:  exec,
		converter: &converter{executor: exec, binary: "ffmpeg", sampleRate: 16000, logger: log},
		logger:    log,
		lookPath:  func(file string) (string, error) { return "/usr/bin/" + file, nil },
	}
}

func TestCLILoad(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "tiny")
	l := newCLILoader(&fakeExecutor{}, dir)

	if _, err := l.Load(context.Background(), "tiny"); err != nil {
		t.Fatalf("Load(tiny) error = %v", err)
	}
	if _, err := l.Load(context.Background(), "large"); err == nil {
		t.Error("Load(large) should fail when the weights are missing")
	}

	l.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	if _, err := l.Load(context.Background(), "tiny"); err == nil {
		t.Error("Load() should fail when the binary is missing")
	}
}

func TestCLITranscribeCleansDerivedFiles(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "small")
	exec := &fakeExecutor{transcript: " Привет, это тест. "}
	model, err := newCLILoader(exec, dir).Load(context.Background(), "small")
	if err != nil {
		t.Fatal(err)
	}

	audio := filepath.Join(t.TempDir(), "audio_1_2.m4a")
	if err := os.WriteFile(audio, []byte("m4a"), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := model.Transcribe(context.Background(), audio, Options{Language: "ru"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != " Привет, это тест. " {
		t.Errorf("text = %q", text)
	}

	entries, _ := os.ReadDir(filepath.Dir(audio))
	if len(entries) != 1 {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("derived files left behind: %v", names)
	}

	if len(exec.calls) != 2 || exec.calls[0][0] != "ffmpeg" || exec.calls[1][0] != "whisper-cli" {
		t.Fatalf("calls = %v, want ffmpeg then whisper-cli", exec.calls)
	}
	foundLang := false
	for i, a := range exec.calls[1] {
		if a == "-l" && exec.calls[1][i+1] == "ru" {
			foundLang = true
		}
	}
	if !foundLang {
		t.Errorf("whisper args missing language: %v", exec.calls[1])
	}
}

func TestCLITranscribeFailures(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExecutor
	}{
		{"ffmpeg fails", &fakeExecutor{ffmpegErr: errors.New("invalid data found")}},
		{"whisper fails", &fakeExecutor{whisperErr: errors.New("failed to read audio")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeModel(t, dir, "small")
			model, err := newCLILoader(tt.exec, dir).Load(context.Background(), "small")
			if err != nil {
				t.Fatal(err)
			}
			audioDir := t.TempDir()
			audio := filepath.Join(audioDir, "a.ogg")
			_ = os.WriteFile(audio, []byte("x"), 0644)

			if _, err := model.Transcribe(context.Background(), audio, Options{Language: "ru"}); err == nil {
				t.Fatal("Transcribe() should fail")
			}
			entries, _ := os.ReadDir(audioDir)
			if len(entries) != 1 {
				t.Errorf("derived files left after failure: %d entries", len(entries))
			}
		})
	}
}

func newServerLoader(t *testing.T, exec *fakeExecutor, url string) *serverLoader {
	t.Helper()
	host, portStr, err := net.SplitHostPort(url)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(portStr)
	dir := t.TempDir()
	writeModel(t, dir, "tiny")
	log := logger.New("error")
	return &serverLoader{
		cfg: config.WhisperConfig{
			ServerBinaryPath: "whisper-server",
			ServerHost:       host,
			ServerPort:       port,
			ModelsDir:        dir,
			Threads:          2,
		},
		executor:     exec,
		converter:    &converter{executor: exec, binary: "ffmpeg", sampleRate: 16000, logger: log},
		logger:       log,
		readyTimeout: 2 * time.Second,
		pollInterval: 20 * time.Millisecond,
	}
}

func TestServerBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = io.WriteString(w, "<html>whisper.cpp server</html>")
		case "/inference":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if r.FormValue("language") != "ru" || r.FormValue("response_format") != "json" {
				http.Error(w, "bad fields", http.StatusBadRequest)
				return
			}
			if _, _, err := r.FormFile("file"); err != nil {
				http.Error(w, "missing file", http.StatusBadRequest)
				return
			}
			_, _ = io.WriteString(w, `{"text":" hello world\n"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	exec := &fakeExecutor{}
	l := newServerLoader(t, exec, srv.Listener.Addr().String())

	model, err := l.Load(context.Background(), "tiny")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(exec.started) != 1 {
		t.Fatalf("started %d processes, want 1", len(exec.started))
	}

	audio := filepath.Join(t.TempDir(), "voice.oga")
	_ = os.WriteFile(audio, []byte("OggS"), 0644)
	text, err := model.Transcribe(context.Background(), audio, Options{Language: "ru"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != " hello world\n" {
		t.Errorf("text = %q", text)
	}

	if err := model.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !exec.started[0].stopped {
		t.Error("Close() should stop whisper-server")
	}
}

func TestServerBackendExitsDuringStartup(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	exec := &fakeExecutor{exitOnStart: true}
	l := newServerLoader(t, exec, addr)

	if _, err := l.Load(context.Background(), "tiny"); err == nil {
		t.Fatal("Load() should fail when whisper-server exits")
	}
}

type fakeProvider struct {
	model Model
	err   error
}

func (p *fakeProvider) Speech(ctx context.Context) (Model, error) { return p.model, p.err }

type stubModel struct {
	text string
	err  error
}

func (m *stubModel) Transcribe(ctx context.Context, filePath string, opts Options) (string, error) {
	return m.text, m.err
}
func (m *stubModel) Close() error { return nil }

func TestEngineTranscribe(t *testing.T) {
	file := models.TemporaryAudioFile{Path: "/tmp/a.ogg", Extension: "ogg", MessageID: 1}

	tests := []struct {
		name      string
		provider  *fakeProvider
		wantText  string
		wantKind  models.ErrorKind
		wantEmpty bool
	}{
		{"speech", &fakeProvider{model: &stubModel{text: "hello"}}, "hello", 0, false},
		{"silence is not an error", &fakeProvider{model: &stubModel{text: "  \n"}}, "  \n", 0, true},
		{"model failure", &fakeProvider{model: &stubModel{err: errors.New("decode")}}, "", models.KindTranscription, false},
		{"load failure", &fakeProvider{err: errors.New("no weights")}, "", models.KindTranscription, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.provider, logger.New("error"))
			res, err := e.Transcribe(context.Background(), file, "ru")
			if tt.wantKind != 0 {
				if models.KindOf(err) != tt.wantKind {
					t.Fatalf("error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transcribe() error = %v", err)
			}
			if res.Text != tt.wantText || res.LanguageHint != "ru" {
				t.Errorf("result = %+v", res)
			}
			if res.IsEmpty() != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", res.IsEmpty(), tt.wantEmpty)
			}
		})
	}
}

func TestNewLoader(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"cli", false},
		{"server", false},
		{"python", true},
	}
	for _, tt := range tests {
		cfg := &config.Config{Whisper: config.WhisperConfig{Backend: tt.backend}}
		_, err := NewLoader(cfg, &fakeExecutor{}, logger.New("error"))
		if (err != nil) != tt.wantErr {
			t.Errorf("NewLoader(%s) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
		}
	}
}
