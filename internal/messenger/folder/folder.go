package folder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/voice-digest/internal/messenger"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

// Register turns a dropped file into an inbound document message.
// Each file gets its own conversation id.
func (e *Endpoint) Register(path string) models.IncomingAudioMessage {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	base := filepath.Base(path)
	e.convs[id] = conversation{
		sourcePath: path,
		name:       strings.TrimSuffix(base, filepath.Ext(base)),
	}

	return models.IncomingAudioMessage{
		MessageID:  int(id),
		ChatID:     id,
		SenderID:   0,
		Attachment: models.DocumentAttachment{FileID: path, FileName: base},
	}
}

// Finish forgets the conversation and removes the source file from the input directory
func (e *Endpoint) Finish(ctx context.Context, msg models.IncomingAudioMessage) {
	e.mu.Lock()
	conv, ok := e.convs[msg.ChatID]
	delete(e.convs, msg.ChatID)
	e.mu.Unlock()

	if !ok {
		return
	}
	if err := os.Remove(conv.sourcePath); err != nil && !os.IsNotExist(err) {
		e.logger.Warn(ctx, "Failed to remove processed input %s: %v", conv.sourcePath, err)
	}
}

// Abandon forgets the conversation but keeps the source file in place
func (e *Endpoint) Abandon(msg models.IncomingAudioMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.convs, msg.ChatID)
}

func (e *Endpoint) FetchFileDescriptor(ctx context.Context, fileID string) (messenger.FileDescriptor, error) {
	if _, err := os.Stat(fileID); err != nil {
		return messenger.FileDescriptor{}, fmt.Errorf("stat %s: %w", fileID, err)
	}
	return messenger.FileDescriptor{FileID: fileID, Path: fileID}, nil
}

func (e *Endpoint) DownloadBinary(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// SendReply appends the reply to <output>/<name>.md. Summaries are also
// rendered to <output>/<name>.docx.
func (e *Endpoint) SendReply(ctx context.Context, reply messenger.Reply) error {
	e.mu.Lock()
	conv, ok := e.convs[reply.ChatID]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown conversation %d", reply.ChatID)
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	mdPath := filepath.Join(e.outputDir, conv.name+".md")
	f, err := os.OpenFile(mdPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", mdPath, err)
	}
	entry := fmt.Sprintf("<!-- %s %s -->\n%s\n\n", time.Now().Format("2006-01-02 15:04:05"), reply.Kind, reply.Text)
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", mdPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", mdPath, err)
	}

	if reply.Kind == messenger.ReplySummary {
		docxPath := filepath.Join(e.outputDir, conv.name+".docx")
		if err := writeSummaryDocx(conv.name, reply.Text, docxPath, time.Now()); err != nil {
			e.logger.Warn(ctx, "Failed to write %s: %v", docxPath, err)
		} else {
			e.logger.Info(ctx, "[DONE] %s -> %s", conv.name, docxPath)
		}
	}

	return nil
}
