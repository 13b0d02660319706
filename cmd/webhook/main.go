package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nguyentantai21042004/voice-digest/internal/app"
	"github.com/nguyentantai21042004/voice-digest/internal/dispatcher"
	"github.com/nguyentantai21042004/voice-digest/internal/httpapi"
	"github.com/nguyentantai21042004/voice-digest/internal/messenger/telegram"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

// The on-demand worker: models load on the first update that needs them.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Webhook failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := app.LoadConfig(configPath(), os.Stdout, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	bot, err := newBotAPI(cfg.Telegram.Token, cfg.Telegram.APIEndpoint)
	if err != nil {
		return fmt.Errorf("connect to Telegram: %w", err)
	}

	client := telegram.New(bot, cfg.Telegram.Token, log, telegram.ConfigOptions(cfg.Telegram)...)
	a, err := app.New(cfg, client, executor.New(), log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer a.Close(context.WithoutCancel(ctx))

	d := dispatcher.New(a.Pipeline, a.Sender, log)
	router := httpapi.NewRouter(httpapi.Options{
		WebhookPath: cfg.HTTP.WebhookPath,
		Secret:      cfg.HTTP.Secret,
	}, d, a.Metrics, log)

	srv := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info(ctx, "Webhook ready at %s%s (models load on first use)", cfg.HTTP.Listen, cfg.HTTP.WebhookPath)
	if err := httpapi.Serve(ctx, srv, log); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	log.Info(context.WithoutCancel(ctx), "Webhook stopped")
	return nil
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func newBotAPI(token, endpoint string) (*tgbotapi.BotAPI, error) {
	if endpoint != "" {
		return tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	}
	return tgbotapi.NewBotAPI(token)
}
