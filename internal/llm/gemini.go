package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"google.golang.org/genai"
)

type geminiClient struct {
	client *genai.Client
	model  string
	logger logger.Logger
}

func newGemini(ctx context.Context, cfg config.LLMConfig, log logger.Logger) (Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	log.Info(ctx, "Gemini client configured (model %s, key %s)", cfg.Model, logger.Mask(cfg.APIKey))
	return &geminiClient{client: client, model: cfg.Model, logger: log}, nil
}

// GenerateContent sends the prompt to Gemini and returns the concatenated text parts
func (g *geminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
