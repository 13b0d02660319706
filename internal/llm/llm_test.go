package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
)

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
	}{
		{"missing key", config.LLMConfig{Provider: "gemini"}},
		{"unknown provider", config.LLMConfig{Provider: "claude", APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.cfg, logger.New("error")); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestOpenAIGenerateContent(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		if len(req.Messages) == 1 {
			gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"short summary"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), config.LLMConfig{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
		BaseURL:  srv.URL + "/v1",
	}, logger.New("error"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := c.GenerateContent(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if out != "short summary" {
		t.Errorf("out = %q", out)
	}
	if gotPrompt != "summarize this" {
		t.Errorf("prompt sent = %q", gotPrompt)
	}
}

func TestOpenAIGenerateContentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), config.LLMConfig{Provider: "openai", Model: "m", APIKey: "k", BaseURL: srv.URL + "/v1"}, logger.New("error"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.GenerateContent(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error = %v, want quota detail", err)
	}
}

func TestGeminiGenerateContent(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"key "},{"text":"points"}]}}]}`)
	}))
	defer srv.Close()

	c, err := New(context.Background(), config.LLMConfig{
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
		APIKey:   "AIza-test",
		BaseURL:  srv.URL,
	}, logger.New("error"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := c.GenerateContent(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if out != "key points" {
		t.Errorf("out = %q, want %q", out, "key points")
	}
	if requests != 1 {
		t.Errorf("requests = %d, want exactly one", requests)
	}
}
