// Package tempfile owns the ephemeral files of one pipeline invocation.
package tempfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nguyentantai21042004/voice-digest/internal/logger"
)

// Scope collects paths created during one invocation and removes them all on Release.
// A Scope with nothing tracked releases cleanly.
type Scope struct {
	dir    string
	logger logger.Logger

	mu       sync.Mutex
	paths    []string
	released bool
}

// NewScope returns a Scope whose files live under dir
func NewScope(dir string, log logger.Logger) *Scope {
	return &Scope{dir: dir, logger: log}
}

// Path builds a path inside the scope directory and tracks it.
// Tracking happens before the caller creates the file so a partial write is still removed.
func (s *Scope) Path(name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	p := filepath.Join(s.dir, name)
	s.Track(p)
	return p, nil
}

// Track registers an existing or future path for removal
func (s *Scope) Track(path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

// Paths returns the tracked paths in creation order
func (s *Scope) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Release removes every tracked path. Paths that were never created are skipped.
// Only the first call does any work.
func (s *Scope) Release(ctx context.Context) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	for i := len(paths) - 1; i >= 0; i-- {
		s.cleanupTempFile(ctx, paths[i])
	}
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (s *Scope) cleanupTempFile(ctx context.Context, filePath string) {
	err := os.Remove(filePath)
	switch {
	case err == nil:
		s.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	case errors.Is(err, os.ErrNotExist):
	default:
		s.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	}
}
