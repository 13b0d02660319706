package llm

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
)

// New configures a client for the provider named in cfg
func New(ctx context.Context, cfg config.LLMConfig, log logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is empty")
	}

	switch cfg.Provider {
	case "gemini", "":
		return newGemini(ctx, cfg, log)
	case "openai":
		return newOpenAI(cfg, log), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q (supported: gemini, openai)", cfg.Provider)
	}
}
