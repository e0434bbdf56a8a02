package usb

import "sync"

// MemoryPort is an in-process Port used by the simulator and tests.
type MemoryPort struct {
	mu      sync.Mutex
	locked  bool
	config  Config
	history []Config

	LockErr error
	SetErr  error
}

func NewMemoryPort(initial Config) *MemoryPort {
	return &MemoryPort{config: initial}
}

func (p *MemoryPort) SetLocked(locked bool) {
	p.mu.Lock()
	p.locked = locked
	p.mu.Unlock()
}

func (p *MemoryPort) Locked() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.LockErr != nil {
		return false, p.LockErr
	}
	return p.locked, nil
}

func (p *MemoryPort) Config() (Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config, nil
}

func (p *MemoryPort) SetConfig(cfg Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SetErr != nil {
		return p.SetErr
	}
	p.config = cfg
	p.history = append(p.history, cfg)
	return nil
}

// History lists every configuration written through SetConfig.
func (p *MemoryPort) History() []Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Config, len(p.history))
	copy(out, p.history)
	return out
}

// FailedPort stands in for a port that could not be opened. The interface
// reads as free but cannot be switched, so Acquire fails without ErrBusy.
type FailedPort struct{ Err error }

func (p FailedPort) Locked() (bool, error)   { return false, nil }
func (p FailedPort) Config() (Config, error) { return Neutral, p.Err }
func (p FailedPort) SetConfig(Config) error  { return p.Err }
