package dispatcher

import (
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/pipeline"
	"github.com/nguyentantai21042004/voice-digest/internal/reply"
)

type implDispatcher struct {
	pipeline pipeline.Handler
	sender   reply.Sender
	logger   logger.Logger
}

// New creates a Dispatcher
func New(handler pipeline.Handler, sender reply.Sender, log logger.Logger) Dispatcher {
	return &implDispatcher{
		pipeline: handler,
		sender:   sender,
		logger:   log,
	}
}
