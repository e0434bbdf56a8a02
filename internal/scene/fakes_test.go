package scene

import (
	"errors"

	"github.com/rook-computer/keyplayer/internal/script"
)

type fakeHost struct {
	switches []ID
	posted   []Event
	stopped  int
	failOn   map[ID]error
}

func (h *fakeHost) Switch(id ID) error {
	if err := h.failOn[id]; err != nil {
		return err
	}
	h.switches = append(h.switches, id)
	return nil
}

func (h *fakeHost) Post(ev Event) { h.posted = append(h.posted, ev) }
func (h *fakeHost) Stop()         { h.stopped++ }

type fakeHandle struct {
	path    string
	opts    script.Options
	status  script.Status
	toggles int
	closed  int
}

func (h *fakeHandle) Status() script.Status { return h.status }
func (h *fakeHandle) Toggle() error {
	h.toggles++
	h.status.State = script.Running
	return nil
}
func (h *fakeHandle) Close() error {
	h.closed++
	if h.closed > 1 {
		return script.ErrClosed
	}
	return nil
}

type fakeEngine struct {
	opened []*fakeHandle
	fail   map[string]bool
}

func (e *fakeEngine) Open(path string, opts script.Options) (script.Handle, error) {
	if e.fail[path] {
		return nil, errors.New("no such script")
	}
	h := &fakeHandle{path: path, opts: opts, status: script.Status{State: script.Idle, Total: 3}}
	e.opened = append(e.opened, h)
	return h, nil
}

func (e *fakeEngine) last() *fakeHandle {
	if len(e.opened) == 0 {
		return nil
	}
	return e.opened[len(e.opened)-1]
}
