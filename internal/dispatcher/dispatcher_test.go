package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
	"github.com/nguyentantai21042004/voice-digest/internal/reply"
)

type recordingPipeline struct {
	mu   sync.Mutex
	msgs []models.IncomingAudioMessage
	err  error
}

func (p *recordingPipeline) HandleMessage(ctx context.Context, msg models.IncomingAudioMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPipeline) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

type greetingSender struct {
	reply.Sender
	greetings []int64
}

func (s *greetingSender) Greeting(ctx context.Context, chatID int64, replyTo int) error {
	s.greetings = append(s.greetings, chatID)
	return nil
}

func commandUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 5},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func TestDispatchCommands(t *testing.T) {
	tests := []struct {
		text          string
		wantGreetings int
	}{
		{"/start", 1},
		{"/help", 1},
		{"/settings", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p := &recordingPipeline{}
			s := &greetingSender{}
			d := New(p, s, logger.New("error"))

			if err := d.Dispatch(context.Background(), commandUpdate(tt.text)); err != nil {
				t.Fatal(err)
			}
			if len(s.greetings) != tt.wantGreetings {
				t.Errorf("greetings = %d, want %d", len(s.greetings), tt.wantGreetings)
			}
			if p.count() != 0 {
				t.Error("command entered the pipeline")
			}
		})
	}
}

func TestToIncoming(t *testing.T) {
	base := func() *tgbotapi.Message {
		return &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: 9}, From: &tgbotapi.User{ID: 77}}
	}

	doc := base()
	doc.Document = &tgbotapi.Document{FileID: "d", FileName: "a.wav"}
	audio := base()
	audio.Audio = &tgbotapi.Audio{FileID: "a", FileName: "song.mp3", Duration: 12}
	voice := base()
	voice.Voice = &tgbotapi.Voice{FileID: "v", Duration: 4}
	text := base()
	text.Text = "hello"

	tests := []struct {
		name   string
		msg    *tgbotapi.Message
		want   models.Attachment
		wantOK bool
	}{
		{"document", doc, models.DocumentAttachment{FileID: "d", FileName: "a.wav"}, true},
		{"audio", audio, models.AudioAttachment{FileID: "a", FileName: "song.mp3", Duration: 12}, true},
		{"voice", voice, models.VoiceAttachment{FileID: "v", Duration: 4}, true},
		{"text", text, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToIncoming(tt.msg)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Attachment != tt.want {
				t.Errorf("attachment = %#v, want %#v", got.Attachment, tt.want)
			}
			if got.MessageID != 3 || got.ChatID != 9 || got.SenderID != 77 {
				t.Errorf("ids = %+v", got)
			}
		})
	}
}

func TestDispatchErrors(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 2,
		Chat:      &tgbotapi.Chat{ID: 1},
		Voice:     &tgbotapi.Voice{FileID: "v"},
	}}

	handled := &recordingPipeline{err: models.NewStageError(models.KindTranscription, errors.New("boom"))}
	if err := New(handled, &greetingSender{}, logger.New("error")).Dispatch(context.Background(), update); err != nil {
		t.Errorf("stage error leaked: %v", err)
	}

	notStarted := &recordingPipeline{err: context.Canceled}
	if err := New(notStarted, &greetingSender{}, logger.New("error")).Dispatch(context.Background(), update); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type chanPoller struct {
	ch      chan tgbotapi.Update
	stopped chan struct{}
	config  tgbotapi.UpdateConfig
}

func (p *chanPoller) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	p.config = config
	return p.ch
}

func (p *chanPoller) StopReceivingUpdates() { close(p.stopped) }

func TestPoll(t *testing.T) {
	p := &recordingPipeline{}
	d := New(p, &greetingSender{}, logger.New("error"))
	poller := &chanPoller{ch: make(chan tgbotapi.Update, 2), stopped: make(chan struct{})}

	for i := 0; i < 2; i++ {
		poller.ch <- tgbotapi.Update{UpdateID: i, Message: &tgbotapi.Message{
			MessageID: i,
			Chat:      &tgbotapi.Chat{ID: 1},
			Voice:     &tgbotapi.Voice{FileID: "v"},
		}}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Poll(ctx, poller, 30) }()

	deadline := time.After(2 * time.Second)
	for p.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("handled %d updates, want 2", p.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	select {
	case <-poller.stopped:
	default:
		t.Error("StopReceivingUpdates was not called")
	}
	if poller.config.Timeout != 30 {
		t.Errorf("timeout = %d, want 30", poller.config.Timeout)
	}
}
