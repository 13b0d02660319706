package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram    TelegramConfig    `yaml:"telegram"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	LLM         LLMConfig         `yaml:"llm"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Paths       PathsConfig       `yaml:"paths"`
	HTTP        HTTPConfig        `yaml:"http"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type TelegramConfig struct {
	Token       string `yaml:"token"`
	APIEndpoint string `yaml:"api_endpoint"`
	// FileEndpoint defaults to the download path of a custom APIEndpoint
	FileEndpoint string `yaml:"file_endpoint"`
	PollTimeout  int    `yaml:"poll_timeout"`
}

type WhisperConfig struct {
	// Backend is "cli" (one whisper-cli run per message) or "server"
	// (a resident whisper-server started on first load).
	Backend          string `yaml:"backend"`
	BinaryPath       string `yaml:"binary_path"`
	ServerBinaryPath string `yaml:"server_binary_path"`
	ServerHost       string `yaml:"server_host"`
	ServerPort       int    `yaml:"server_port"`
	ModelsDir        string `yaml:"models_dir"`
	ModelSize        string `yaml:"model_size"`
	Language         string `yaml:"language"`
	Prompt           string `yaml:"prompt"`
	Threads          int    `yaml:"threads"`
	UseGPU           bool   `yaml:"use_gpu"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type LLMConfig struct {
	// Provider is "gemini" or "openai"
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

type PipelineConfig struct {
	Correction     *bool `yaml:"correction"`
	EchoTranscript bool  `yaml:"echo_transcript"`
	LazyModels     bool  `yaml:"lazy_models"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

type HTTPConfig struct {
	Listen      string `yaml:"listen"`
	WebhookPath string `yaml:"webhook_path"`
	Secret      string `yaml:"secret"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// CorrectionEnabled reports whether the correction pass runs before summarization
func (p PipelineConfig) CorrectionEnabled() bool {
	return p.Correction == nil || *p.Correction
}

// Load reads the YAML file at path, applies environment overrides and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadEnv loads KEY=VALUE pairs from the given dotenv files into the process
// environment. Missing files are skipped; variables already set win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	default:
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	}
}

func (c *Config) Validate() error {
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = "cli"
	}
	if c.Whisper.Backend != "cli" && c.Whisper.Backend != "server" {
		return fmt.Errorf("whisper.backend must be cli or server, got %q", c.Whisper.Backend)
	}
	if c.Whisper.ModelsDir == "" {
		return fmt.Errorf("whisper.models_dir is required")
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.ServerBinaryPath == "" {
		c.Whisper.ServerBinaryPath = "whisper-server"
	}
	if c.Whisper.ServerHost == "" {
		c.Whisper.ServerHost = "127.0.0.1"
	}
	if c.Whisper.ServerPort == 0 {
		c.Whisper.ServerPort = 8178
	}
	if c.Whisper.ModelSize == "" {
		c.Whisper.ModelSize = "small"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "ru"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}

	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	switch c.LLM.Provider {
	case "":
		c.LLM.Provider = "gemini"
	case "gemini", "openai":
	default:
		return fmt.Errorf("llm.provider must be gemini or openai, got %q", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		if c.LLM.Provider == "openai" {
			c.LLM.Model = "gpt-4o-mini"
		} else {
			c.LLM.Model = "gemini-2.5-flash"
		}
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = filepath.Join(os.TempDir(), "voice-digest")
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}

	if c.Telegram.APIEndpoint != "" && c.Telegram.FileEndpoint == "" {
		fe, ok := fileEndpointFor(c.Telegram.APIEndpoint)
		if !ok {
			return fmt.Errorf("telegram.file_endpoint is required when api_endpoint %q has no /bot%%s/%%s suffix", c.Telegram.APIEndpoint)
		}
		c.Telegram.FileEndpoint = fe
	}
	if c.Telegram.PollTimeout == 0 {
		c.Telegram.PollTimeout = 60
	}
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = ":8080"
	}
	if c.HTTP.WebhookPath == "" {
		c.HTTP.WebhookPath = "/telegram"
	}
	if !strings.HasPrefix(c.HTTP.WebhookPath, "/") {
		c.HTTP.WebhookPath = "/" + c.HTTP.WebhookPath
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

// fileEndpointFor maps a Bot API method template (".../bot%s/%s") to the
// matching file download template (".../file/bot%s/%s")
func fileEndpointFor(apiEndpoint string) (string, bool) {
	const suffix = "/bot%s/%s"
	if !strings.HasSuffix(apiEndpoint, suffix) {
		return "", false
	}
	return strings.TrimSuffix(apiEndpoint, suffix) + "/file" + suffix, true
}

// RequireTelegram checks the settings needed by the Telegram-facing commands
func (c *Config) RequireTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required (or TELEGRAM_BOT_TOKEN)")
	}
	return c.RequireLLM()
}

// RequireLLM checks that the generative service can be configured
func (c *Config) RequireLLM() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required (or GEMINI_API_KEY / OPENAI_API_KEY)")
	}
	return nil
}
