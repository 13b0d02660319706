package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"
)

// slot caches one lazily loaded value. The mutex is held across the load so
// concurrent first callers wait for the single winner.
type slot[T any] struct {
	mu     sync.Mutex
	loaded bool
	value  T
	loads  atomic.Int64
	load   func(ctx context.Context) (T, error)
}

func (s *slot[T]) get(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.value, nil
	}

	s.loads.Add(1)
	v, err := s.load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.value = v
	s.loaded = true
	return v, nil
}

// peek returns the value without loading it
func (s *slot[T]) peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.loaded
}
