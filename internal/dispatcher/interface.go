// Package dispatcher routes Telegram updates to the greeting or the pipeline.
package dispatcher

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Poller is the long-polling part of *tgbotapi.BotAPI
type Poller interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dispatcher turns updates into pipeline runs
type Dispatcher interface {
	// Dispatch handles one update synchronously. Updates without an audio
	// payload or a known command are ignored. It returns an error only when
	// the message could not be started.
	Dispatch(ctx context.Context, update tgbotapi.Update) error
	// Poll receives updates until ctx is done, one goroutine per update,
	// and waits for running handlers before returning.
	Poll(ctx context.Context, poller Poller, timeout int) error
}
