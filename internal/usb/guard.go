// Package usb guards exclusive ownership of the device's USB interface.
//
// A successful Acquire switches the interface to the Neutral configuration
// and hands out a Token. Releasing the token puts back the configuration
// that was active before the acquisition.
package usb

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrBusy is returned when another consumer holds the interface.
	ErrBusy          = errors.New("usb interface locked by another consumer")
	ErrTokenReleased = errors.New("usb token already released")
)

// Config names the active interface configuration.
type Config string

// Neutral is the configuration with no consumer attached.
const Neutral Config = ""

func (c Config) String() string {
	if c == Neutral {
		return "<none>"
	}
	return string(c)
}

// Port is the shared hardware interface.
type Port interface {
	Locked() (bool, error)
	Config() (Config, error)
	SetConfig(cfg Config) error
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

type Guard struct {
	Port   Port
	Logger Logger
}

func NewGuard(port Port, logger Logger) *Guard {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Guard{Port: port, Logger: logger}
}

// Acquire claims the interface. It returns ErrBusy without touching the
// port when another consumer holds it.
func (g *Guard) Acquire() (*Token, error) {
	locked, err := g.Port.Locked()
	if err != nil {
		g.Logger.Errorf("usb", "lock query failed, treating as busy: %v", err)
		return nil, ErrBusy
	}
	if locked {
		return nil, ErrBusy
	}

	prev, err := g.Port.Config()
	if err != nil {
		return nil, fmt.Errorf("read usb config: %w", err)
	}
	if err := g.Port.SetConfig(Neutral); err != nil {
		return nil, fmt.Errorf("switch usb to neutral: %w", err)
	}
	g.Logger.Infof("usb", "acquired interface, previous config %s", prev)
	return &Token{port: g.Port, prev: prev, logger: g.Logger}, nil
}

// Token is redeemable exactly once.
type Token struct {
	port     Port
	prev     Config
	logger   Logger
	released atomic.Bool
}

// Previous is the configuration that Release restores.
func (t *Token) Previous() Config { return t.prev }

func (t *Token) Release() error {
	if !t.released.CompareAndSwap(false, true) {
		return ErrTokenReleased
	}
	if err := t.port.SetConfig(t.prev); err != nil {
		t.logger.Errorf("usb", "restore config %s failed: %v", t.prev, err)
		return fmt.Errorf("restore usb config: %w", err)
	}
	t.logger.Infof("usb", "released interface, restored config %s", t.prev)
	return nil
}
