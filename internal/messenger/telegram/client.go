package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nguyentantai21042004/voice-digest/internal/config"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/messenger"
)

// API is the part of *tgbotapi.BotAPI the client uses
type API interface {
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type implClient struct {
	api          API
	token        string
	fileEndpoint string
	httpClient   *http.Client
	logger       logger.Logger
}

// Option customises the client
type Option func(*implClient)

// WithFileEndpoint overrides the download URL template (token, file path)
func WithFileEndpoint(endpoint string) Option {
	return func(c *implClient) { c.fileEndpoint = endpoint }
}

// WithHTTPClient sets the client used for file downloads
func WithHTTPClient(hc *http.Client) Option {
	return func(c *implClient) { c.httpClient = hc }
}

// ConfigOptions returns the options implied by cfg
func ConfigOptions(cfg config.TelegramConfig) []Option {
	var opts []Option
	if cfg.FileEndpoint != "" {
		opts = append(opts, WithFileEndpoint(cfg.FileEndpoint))
	}
	return opts
}

// New wraps a bot API handle as a messenger.Client
func New(api API, token string, log logger.Logger, opts ...Option) messenger.Client {
	c := &implClient{
		api:          api,
		token:        token,
		fileEndpoint: tgbotapi.FileEndpoint,
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		logger:       log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *implClient) FetchFileDescriptor(ctx context.Context, fileID string) (messenger.FileDescriptor, error) {
	f, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return messenger.FileDescriptor{}, fmt.Errorf("get file %s: %w", fileID, err)
	}
	return messenger.FileDescriptor{FileID: f.FileID, Path: f.FilePath}, nil
}

func (c *implClient) DownloadBinary(ctx context.Context, path string) ([]byte, error) {
	url := fmt.Sprintf(c.fileEndpoint, c.token, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL embeds the bot token, keep it out of the error
		return nil, fmt.Errorf("download %s: request failed", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status code: %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download %s: read body: %w", path, err)
	}

	c.logger.Debug(ctx, "Downloaded %s (%d bytes)", path, len(data))
	return data, nil
}

func (c *implClient) SendReply(ctx context.Context, reply messenger.Reply) error {
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ReplyToMessageID = reply.ReplyTo

	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("send %s reply to chat %d: %w", reply.Kind, reply.ChatID, err)
	}
	return nil
}
