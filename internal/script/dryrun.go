package script

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const defaultLineDelay = 200 * time.Millisecond

// DryRunEngine pretends to type a script, one line per LineDelay, without
// touching any HID interface.
type DryRunEngine struct {
	Clock     clockwork.Clock
	LineDelay time.Duration
}

func NewDryRunEngine(clock clockwork.Clock, lineDelay time.Duration) *DryRunEngine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if lineDelay <= 0 {
		lineDelay = defaultLineDelay
	}
	return &DryRunEngine{Clock: clock, LineDelay: lineDelay}
}

func (e *DryRunEngine) Open(path string, _ Options) (Handle, error) {
	total, err := countLines(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return &dryRunHandle{clock: e.Clock, delay: e.LineDelay, total: total}, nil
}

type dryRunHandle struct {
	clock clockwork.Clock
	delay time.Duration
	total int

	mu      sync.Mutex
	state   State
	started time.Time
	played  time.Duration // accumulated before the current run segment
	closed  bool
}

func (h *dryRunHandle) elapsedLocked() time.Duration {
	if h.state == Running {
		return h.played + h.clock.Since(h.started)
	}
	return h.played
}

func (h *dryRunHandle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	line := int(h.elapsedLocked() / h.delay)
	if line >= h.total && h.state != Idle {
		return Status{State: Done, Line: h.total, Total: h.total}
	}
	return Status{State: h.state, Line: line, Total: h.total}
}

func (h *dryRunHandle) Toggle() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	switch h.state {
	case Idle, Paused:
		h.state = Running
		h.started = h.clock.Now()
	case Running:
		h.played += h.clock.Since(h.started)
		h.state = Paused
	}
	return nil
}

func (h *dryRunHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.closed = true
	return nil
}
