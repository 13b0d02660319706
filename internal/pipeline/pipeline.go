package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/metrics"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
	"github.com/nguyentantai21042004/voice-digest/internal/tempfile"
)

// Stage names used in metrics
const (
	stageAcquire     = "acquire"
	stageTranscribe  = "transcribe"
	stagePostprocess = "postprocess"
	stageTotal       = "total"
)

func (h *implHandler) HandleMessage(ctx context.Context, msg models.IncomingAudioMessage) error {
	if logger.RequestID(ctx) == "" {
		ctx = logger.WithRequestID(ctx, uuid.NewString())
	}

	err := ctx.Err()
	if err == nil {
		err = h.sem.Acquire(ctx, 1)
	}
	if err != nil {
		h.logger.Warn(ctx, "Dropped message %d from chat %d: %v", msg.MessageID, msg.ChatID, err)
		return fmt.Errorf("wait for pipeline slot: %w", err)
	}
	defer h.sem.Release(1)

	// ctx only gates intake; a started run is never cut short by the caller
	ctx = context.WithoutCancel(ctx)

	if h.metrics != nil {
		h.metrics.InFlight.Inc()
		defer h.metrics.InFlight.Dec()
	}

	start := time.Now()
	defer h.metrics.ObserveStage(stageTotal, start)

	h.logger.Info(ctx, "Processing %s message %d from chat %d", contentTypeOf(msg), msg.MessageID, msg.ChatID)

	scope := tempfile.NewScope(h.opts.TempDir, h.logger)
	defer scope.Release(ctx)

	if err := h.run(ctx, msg, scope); err != nil {
		h.fail(ctx, msg, err)
		return err
	}

	h.metrics.ObserveOutcome(metrics.OutcomeSuccess)
	h.logger.Info(ctx, "Delivered summary for message %d in %v", msg.MessageID, time.Since(start).Round(time.Millisecond))
	return nil
}

// run is the sequential chain. Every error it returns is a *models.StageError.
func (h *implHandler) run(ctx context.Context, msg models.IncomingAudioMessage, scope *tempfile.Scope) error {
	if err := h.acquirer.Validate(msg); err != nil {
		return err
	}

	stageStart := time.Now()
	file, err := h.acquirer.Acquire(ctx, msg, scope)
	h.metrics.ObserveStage(stageAcquire, stageStart)
	if err != nil {
		return err
	}

	stageStart = time.Now()
	result, err := h.transcriber.Transcribe(ctx, file, h.opts.Language)
	h.metrics.ObserveStage(stageTranscribe, stageStart)
	if err != nil {
		return err
	}
	if result.IsEmpty() {
		return models.NewStageError(models.KindEmptyTranscript, models.ErrEmptyTranscript)
	}
	h.logger.Debug(ctx, "Transcribed message %d: %d chars", msg.MessageID, len(result.Text))

	if h.opts.EchoTranscript {
		_ = h.sender.Transcript(ctx, msg, result)
	}
	_ = h.sender.Summarizing(ctx, msg)

	stageStart = time.Now()
	report, err := h.postprocessor.Process(ctx, result)
	h.metrics.ObserveStage(stagePostprocess, stageStart)
	if err != nil {
		return err
	}

	_ = h.sender.Summary(ctx, msg, report)
	return nil
}

// fail turns a stage error into the single user-facing reply
func (h *implHandler) fail(ctx context.Context, msg models.IncomingAudioMessage, err error) {
	kind := models.KindOf(err)
	switch kind {
	case models.KindValidation:
		h.logger.Warn(ctx, "Rejected message %d: %v", msg.MessageID, err)
	case models.KindEmptyTranscript:
		h.logger.Info(ctx, "No speech recognized in message %d", msg.MessageID)
	default:
		h.logger.Error(ctx, "Failed to process message %d: %v", msg.MessageID, err)
	}

	h.metrics.ObserveOutcome(kind.String())
	_ = h.sender.Failure(ctx, msg, err)
}

func contentTypeOf(msg models.IncomingAudioMessage) models.ContentType {
	if msg.Attachment == nil {
		return "unknown"
	}
	return msg.Attachment.ContentType()
}
