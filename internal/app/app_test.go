package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/messenger/folder"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	envPath := filepath.Join(dir, ".env")

	yaml := "whisper:\n  models_dir: " + dir + "\nlogging:\n  format: json\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envPath, []byte("GEMINI_API_KEY=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")

	var out bytes.Buffer
	cfg, log, err := LoadConfig(cfgPath, &out, envPath, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LLM.APIKey != "from-dotenv" {
		t.Errorf("api key = %q, want value from .env", cfg.LLM.APIKey)
	}

	log.Info(context.Background(), "hello")
	if !strings.Contains(out.String(), `"message":"hello"`) {
		t.Errorf("logger output = %q, want json", out.String())
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Whisper.Backend = "gpu-cluster"
	log := logger.New("error")

	if _, err := New(cfg, folder.New(t.TempDir(), log), executor.New(), log); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNewWiresPipeline(t *testing.T) {
	cfg := &config.Config{}
	cfg.Whisper.ModelsDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	log := logger.New("error")

	a, err := New(cfg, folder.New(t.TempDir(), log), executor.New(), log)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.Pipeline == nil || a.Sender == nil || a.Models == nil || a.Metrics == nil {
		t.Fatalf("incomplete app: %+v", a)
	}
	if s, g := a.Models.Loads(); s != 0 || g != 0 {
		t.Errorf("models loaded eagerly by New: %d/%d", s, g)
	}
	a.Close(context.Background())
}
