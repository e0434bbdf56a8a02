package input

import (
	"context"
	"sync"
)

// RemoteSource delivers keys injected from another goroutine, e.g. an HTTP
// handler. Inject never blocks.
type RemoteSource struct {
	mu      sync.Mutex
	ch      chan Key
	stopped bool
}

func NewRemoteSource(buffer int) *RemoteSource {
	if buffer <= 0 {
		buffer = 16
	}
	return &RemoteSource{ch: make(chan Key, buffer)}
}

func (s *RemoteSource) Start(ctx context.Context) error { return nil }

func (s *RemoteSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.ch)
	}
	return nil
}

func (s *RemoteSource) Keys() <-chan Key { return s.ch }

// Inject queues key. It reports false when the source is stopped or the
// buffer is full.
func (s *RemoteSource) Inject(key Key) bool {
	if key == KeyNone {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	select {
	case s.ch <- key:
		return true
	default:
		return false
	}
}
