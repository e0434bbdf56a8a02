// Package notify signals script lifecycle events to the user outside the
// screen, e.g. LED blinks or a buzzer driven by a helper script.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rook-computer/keyplayer/internal/system"
)

type Event string

const (
	Started Event = "started"
	Done    Event = "done"
	Failed  Event = "failed"
	Busy    Event = "busy"
)

const defaultTimeout = 2 * time.Second

type Notifier interface {
	Notify(event Event)
	Close() error
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(Event) {}
func (NoopNotifier) Close() error { return nil }

// ScriptNotifier runs `<Script> <event>` through a system.Runner. Calls are
// serialized and each one is bounded by Timeout; failures are only logged.
type ScriptNotifier struct {
	Runner  system.Runner
	Script  string
	Timeout time.Duration
	Logger  Logger

	mu     sync.Mutex
	closed bool
}

func NewScriptNotifier(runner system.Runner, script string, logger Logger) *ScriptNotifier {
	return &ScriptNotifier{Runner: runner, Script: script, Timeout: defaultTimeout, Logger: logger}
}

func (n *ScriptNotifier) Notify(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || n.Script == "" {
		return
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, stderr, err := n.Runner.Run(ctx, n.Script, string(event)); err != nil && n.Logger != nil {
		n.Logger.Errorf("notify", "%s %s failed: %v: %s", n.Script, event, err, stderr)
	}
}

// Close turns further notifications into no-ops.
func (n *ScriptNotifier) Close() error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
	return nil
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (r *Recorder) Notify(event Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
