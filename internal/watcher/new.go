package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/voice-digest/internal/logger"
)

// New creates a Watcher on inputDir. Only files whose suffix is one of
// extensions (without the dot) reach handler.
func New(inputDir string, extensions []string, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir:    inputDir,
		extensions:  extensions,
		handler:     handler,
		logger:      log,
		watcher:     watcher,
		settleDelay: 500 * time.Millisecond,
	}, nil
}
