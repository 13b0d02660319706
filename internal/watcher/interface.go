package watcher

import "context"

// Watcher monitors the input folder for new audio files
type Watcher interface {
	// Start handles files already in the folder, then every new one,
	// until ctx is done. It waits for running handlers before returning.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one audio file
type EventHandler func(ctx context.Context, filePath string) error
