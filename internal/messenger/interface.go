// Package messenger defines what the pipeline needs from a messaging endpoint.
package messenger

import "context"

// MaxMessageLength is the largest text body a single reply may carry
const MaxMessageLength = 4096

// ReplyKind labels a reply so endpoints can render some kinds differently
type ReplyKind string

const (
	ReplyGreeting   ReplyKind = "greeting"
	ReplyStatus     ReplyKind = "status"
	ReplyTranscript ReplyKind = "transcript"
	ReplySummary    ReplyKind = "summary"
	ReplyError      ReplyKind = "error"
)

// Reply is one outbound text message.
// ReplyTo is the id of the message being answered, zero for a plain message.
type Reply struct {
	ChatID  int64
	ReplyTo int
	Kind    ReplyKind
	Text    string
}

// FileDescriptor locates a remote payload
type FileDescriptor struct {
	FileID string
	Path   string
}

// Client is the messaging endpoint as seen by the pipeline
type Client interface {
	FetchFileDescriptor(ctx context.Context, fileID string) (FileDescriptor, error)
	DownloadBinary(ctx context.Context, path string) ([]byte, error)
	SendReply(ctx context.Context, reply Reply) error
}
