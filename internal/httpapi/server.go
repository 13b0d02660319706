// Package httpapi serves the Telegram webhook, health and metrics endpoints.
package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nguyentantai21042004/voice-digest/internal/dispatcher"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/metrics"
)

// SecretHeader carries the token Telegram echoes back on every webhook call
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Options configures the router
type Options struct {
	WebhookPath string
	Secret      string
}

// NewRouter mounts the webhook at opts.WebhookPath. POST dispatches the update
// synchronously and answers "ok", or "error" with status 500 when the update
// could not be handled. GET on the same path reports liveness.
func NewRouter(opts Options, d dispatcher.Dispatcher, m *metrics.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	h := &webhook{dispatcher: d, secret: opts.Secret, metrics: m, logger: log}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Get(opts.WebhookPath, h.status)
	r.Post(opts.WebhookPath, h.receive)

	return r
}

type webhook struct {
	dispatcher dispatcher.Dispatcher
	secret     string
	metrics    *metrics.Metrics
	logger     logger.Logger
}

func (h *webhook) status(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Bot is running."))
}

func (h *webhook) receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(h.secret)) != 1 {
		h.logger.Warn(ctx, "Rejected webhook call with a bad secret from %s", r.RemoteAddr)
		h.respond(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Error(ctx, "Failed to decode update: %v", err)
		h.respond(w, http.StatusInternalServerError, "error")
		return
	}

	if err := h.dispatcher.Dispatch(ctx, update); err != nil {
		h.logger.Error(ctx, "Failed to handle update %d: %v", update.UpdateID, err)
		h.respond(w, http.StatusInternalServerError, "error")
		return
	}

	h.respond(w, http.StatusOK, "ok")
}

func (h *webhook) respond(w http.ResponseWriter, status int, body string) {
	if h.metrics != nil {
		h.metrics.WebhookRequests.WithLabelValues(http.StatusText(status)).Inc()
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Serve runs srv until ctx is done, then stops accepting connections and
// waits for active requests to finish
func Serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// in-flight webhook calls run whole pipelines; wait for them
	log.Info(ctx, "Shutting down HTTP server")
	if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	return nil
}
