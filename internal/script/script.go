// Package script opens keystroke scripts for playback.
//
// The core treats a Handle as an opaque owned resource: it is opened when
// the Work scene is entered and closed when that scene is left.
package script

import (
	"errors"

	"github.com/rook-computer/keyplayer/internal/settings"
)

var (
	ErrNotFound = errors.New("script not found")
	ErrClosed   = errors.New("script handle closed")
)

type Options struct {
	LayoutPath string
	Interface  settings.Interface
}

type Engine interface {
	Open(path string, opts Options) (Handle, error)
}

type Handle interface {
	Status() Status
	// Toggle starts, pauses or resumes playback.
	Toggle() error
	Close() error
}

type State int

const (
	Idle State = iota
	Running
	Paused
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "ready"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Done:
		return "done"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

type Status struct {
	State State
	Line  int
	Total int
	Err   string
}

// Finished reports whether playback reached a terminal state.
func (s Status) Finished() bool { return s.State == Done || s.State == Failed }

// Progress is the played fraction in [0,1].
func (s Status) Progress() float64 {
	if s.Total <= 0 {
		if s.State == Done {
			return 1
		}
		return 0
	}
	p := float64(s.Line) / float64(s.Total)
	if p > 1 {
		return 1
	}
	return p
}
