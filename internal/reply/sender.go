package reply

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/messenger"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

type implSender struct {
	client messenger.Client
	logger logger.Logger
}

// New creates a Sender on top of a messaging endpoint
func New(client messenger.Client, log logger.Logger) Sender {
	return &implSender{client: client, logger: log}
}

func (s *implSender) Greeting(ctx context.Context, chatID int64, replyTo int) error {
	return s.send(ctx, chatID, replyTo, messenger.ReplyGreeting, greetingText)
}

func (s *implSender) ProcessingStarted(ctx context.Context, msg models.IncomingAudioMessage, durationSeconds int) error {
	return s.send(ctx, msg.ChatID, msg.MessageID, messenger.ReplyStatus, StartedText(durationSeconds))
}

// Transcript echoes the raw transcript as plain messages in the chat
func (s *implSender) Transcript(ctx context.Context, msg models.IncomingAudioMessage, result models.TranscriptionResult) error {
	return s.send(ctx, msg.ChatID, 0, messenger.ReplyTranscript, result.Text)
}

func (s *implSender) Summarizing(ctx context.Context, msg models.IncomingAudioMessage) error {
	return s.send(ctx, msg.ChatID, 0, messenger.ReplyStatus, summarizingText)
}

func (s *implSender) Summary(ctx context.Context, msg models.IncomingAudioMessage, report models.SummaryReport) error {
	return s.send(ctx, msg.ChatID, msg.MessageID, messenger.ReplySummary, fmt.Sprintf(summaryFormat, report.Text))
}

func (s *implSender) Failure(ctx context.Context, msg models.IncomingAudioMessage, err error) error {
	return s.send(ctx, msg.ChatID, msg.MessageID, messenger.ReplyError, FailureText(err))
}

// send delivers text in order, split at the message length limit.
// Only the first piece is addressed to replyTo. Delivery stops at the first failure.
func (s *implSender) send(ctx context.Context, chatID int64, replyTo int, kind messenger.ReplyKind, text string) error {
	chunks := Chunk(text, messenger.MaxMessageLength)
	for i, c := range chunks {
		r := messenger.Reply{ChatID: chatID, Kind: kind, Text: c}
		if i == 0 {
			r.ReplyTo = replyTo
		}
		if err := s.client.SendReply(ctx, r); err != nil {
			s.logger.Warn(ctx, "Failed to deliver %s reply (%d/%d) to chat %d: %v", kind, i+1, len(chunks), chatID, err)
			return err
		}
	}
	if len(chunks) > 1 {
		s.logger.Debug(ctx, "Delivered %s reply to chat %d in %d parts", kind, chatID, len(chunks))
	}
	return nil
}
