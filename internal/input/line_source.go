package input

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// LineSource reads one key per line, e.g. from a terminal:
//
//	w/up  s/down  a/left  d/right  e/ok/<empty>  q/back
type LineSource struct {
	r      io.Reader
	ch     chan Key
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: r, ch: make(chan Key, 16)}
}

func (s *LineSource) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.once.Do(func() { close(s.ch) })
		scanner := bufio.NewScanner(s.r)
		for scanner.Scan() {
			key := ParseKey(scanner.Text())
			if key == KeyNone {
				continue
			}
			select {
			case s.ch <- key:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop cancels delivery. A reader blocked in Read is left to the caller to close.
func (s *LineSource) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *LineSource) Keys() <-chan Key { return s.ch }

func ParseKey(text string) Key {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "w", "up", "k":
		return KeyUp
	case "s", "down", "j":
		return KeyDown
	case "a", "left", "h":
		return KeyLeft
	case "d", "right", "l":
		return KeyRight
	case "", "e", "ok", "enter":
		return KeyOK
	case "q", "back", "esc":
		return KeyBack
	default:
		return KeyNone
	}
}
