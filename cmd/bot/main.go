package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nguyentantai21042004/voice-digest/internal/app"
	"github.com/nguyentantai21042004/voice-digest/internal/dispatcher"
	"github.com/nguyentantai21042004/voice-digest/internal/messenger/telegram"
	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

// The always-on worker: both models are loaded before polling starts.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Bot failed: %v\n", err)
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

	log.Info(ctx, "========================================")
	log.Info(ctx, "Voice Digest Bot (polling)")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU Cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	bot, err := newBotAPI(cfg.Telegram.Token, cfg.Telegram.APIEndpoint)
	if err != nil {
		return fmt.Errorf("connect to Telegram: %w", err)
	}
	log.Info(ctx, "Authorized as @%s", bot.Self.UserName)

	client := telegram.New(bot, cfg.Telegram.Token, log, telegram.ConfigOptions(cfg.Telegram)...)
	a, err := app.New(cfg, client, executor.New(), log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	// runs on every return below, so a preloaded whisper-server never outlives the bot
	defer a.Close(context.WithoutCancel(ctx))

	if err := a.Preload(ctx); err != nil {
		return err
	}

	log.Info(ctx, "Bot is ready! Press Ctrl+C to stop")

	d := dispatcher.New(a.Pipeline, a.Sender, log)
	if err := d.Poll(ctx, bot, cfg.Telegram.PollTimeout); err != nil {
		return fmt.Errorf("polling: %w", err)
	}

	log.Info(context.WithoutCancel(ctx), "Bot stopped")
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
