package dispatcher

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

func (d *implDispatcher) Dispatch(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			_ = d.sender.Greeting(ctx, msg.Chat.ID, msg.MessageID)
		default:
			d.logger.Debug(ctx, "Ignoring command /%s in chat %d", msg.Command(), msg.Chat.ID)
		}
		return nil
	}

	in, ok := ToIncoming(msg)
	if !ok {
		d.logger.Debug(ctx, "Ignoring message %d in chat %d: no audio payload", msg.MessageID, msg.Chat.ID)
		return nil
	}

	err := d.pipeline.HandleMessage(ctx, in)
	if err != nil && models.KindOf(err) != 0 {
		// already answered in the chat
		return nil
	}
	return err
}

// ToIncoming extracts the audio payload of msg. Documents take precedence
// over audio, audio over voice.
func ToIncoming(msg *tgbotapi.Message) (models.IncomingAudioMessage, bool) {
	in := models.IncomingAudioMessage{MessageID: msg.MessageID}
	if msg.Chat != nil {
		in.ChatID = msg.Chat.ID
	}
	if msg.From != nil {
		in.SenderID = msg.From.ID
	}

	switch {
	case msg.Document != nil:
		in.Attachment = models.DocumentAttachment{FileID: msg.Document.FileID, FileName: msg.Document.FileName}
	case msg.Audio != nil:
		in.Attachment = models.AudioAttachment{FileID: msg.Audio.FileID, FileName: msg.Audio.FileName, Duration: msg.Audio.Duration}
	case msg.Voice != nil:
		in.Attachment = models.VoiceAttachment{FileID: msg.Voice.FileID, Duration: msg.Voice.Duration}
	default:
		return models.IncomingAudioMessage{}, false
	}
	return in, true
}

func (d *implDispatcher) Poll(ctx context.Context, poller Poller, timeout int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	updates := poller.GetUpdatesChan(u)

	d.logger.Info(ctx, "Polling for updates (timeout %ds)", timeout)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info(ctx, "Stopping update polling")
			poller.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer wg.Done()
				if err := d.Dispatch(ctx, update); err != nil {
					d.logger.Warn(ctx, "Update %d not processed: %v", update.UpdateID, err)
				}
			}(update)
		}
	}
}
