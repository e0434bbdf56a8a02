// Package input turns keyboards and test streams into navigation keys.
package input

import (
	"context"
	"sync"
)

type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyOK
	KeyBack
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyOK:
		return "ok"
	case KeyBack:
		return "back"
	default:
		return "none"
	}
}

// Source delivers keys on Keys() between Start and Stop. Keys() is closed
// once the source stops producing.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Keys() <-chan Key
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// NoopSource never produces a key.
type NoopSource struct {
	ch   chan Key
	once sync.Once
}

func NewNoopSource() *NoopSource { return &NoopSource{ch: make(chan Key)} }

func (n *NoopSource) Start(ctx context.Context) error { return nil }
func (n *NoopSource) Stop() error                     { n.once.Do(func() { close(n.ch) }); return nil }
func (n *NoopSource) Keys() <-chan Key                { return n.ch }
