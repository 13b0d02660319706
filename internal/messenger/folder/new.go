// Package folder is a messaging endpoint backed by local directories: audio
// files dropped into an input directory become messages, and replies are
// written next to each other in an output directory.
package folder

import (
	"sync"

	"github.com/nguyentantai21042004/voice-digest/internal/logger"
)

type conversation struct {
	sourcePath string
	name       string
}

// Endpoint implements messenger.Client over the filesystem
type Endpoint struct {
	outputDir string
	logger    logger.Logger

	mu     sync.Mutex
	nextID int64
	convs  map[int64]conversation
}

// New creates an Endpoint writing replies into outputDir
func New(outputDir string, log logger.Logger) *Endpoint {
	return &Endpoint{
		outputDir: outputDir,
		logger:    log,
		convs:     make(map[int64]conversation),
	}
}
