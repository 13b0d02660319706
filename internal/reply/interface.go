package reply

import (
	"context"

	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

// Sender delivers the ordered replies of one conversation.
// Delivery failures are logged and returned; they never produce another reply.
type Sender interface {
	Greeting(ctx context.Context, chatID int64, replyTo int) error
	ProcessingStarted(ctx context.Context, msg models.IncomingAudioMessage, durationSeconds int) error
	Transcript(ctx context.Context, msg models.IncomingAudioMessage, result models.TranscriptionResult) error
	Summarizing(ctx context.Context, msg models.IncomingAudioMessage) error
	Summary(ctx context.Context, msg models.IncomingAudioMessage, report models.SummaryReport) error
	Failure(ctx context.Context, msg models.IncomingAudioMessage, err error) error
}
