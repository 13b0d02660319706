package acquirer

import (
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
	"github.com/nguyentantai21042004/voice-digest/internal/messenger"
)

type implAcquirer struct {
	client   messenger.Client
	notifier Notifier
	logger   logger.Logger
}

// New creates an Acquirer fetching payloads through client
func New(client messenger.Client, notifier Notifier, log logger.Logger) Acquirer {
	return &implAcquirer{
		client:   client,
		notifier: notifier,
		logger:   log,
	}
}
