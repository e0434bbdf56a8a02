// Package view hosts the scene surfaces: exactly one is mounted at a time
// and every input, custom event and tick is dispatched from one goroutine.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/scene"
	"github.com/rook-computer/keyplayer/internal/state"
)

const DefaultTickInterval = 500 * time.Millisecond

// Surface is a mountable screen that sees keys before the scene controller.
type Surface interface {
	render.Screen
	// HandleKey reports whether the key was consumed.
	HandleKey(key input.Key) bool
}

// Dispatcher receives what the surfaces did not consume.
type Dispatcher interface {
	HandleCustom(ev scene.Event) bool
	HandleBack() bool
	HandleTick()
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

type Host struct {
	Renderer render.Renderer
	Store    *state.Store
	Input    input.Source
	Clock    clockwork.Clock
	Interval time.Duration
	Logger   Logger

	ctx        context.Context
	dispatcher Dispatcher
	surfaces   map[scene.ID]Surface
	mounted    Surface
	mountedID  scene.ID

	mu    sync.Mutex
	queue []scene.Event
	wake  chan struct{}

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewHost(ctx context.Context, renderer render.Renderer, store *state.Store, source input.Source, clock clockwork.Clock, logger Logger) *Host {
	if renderer == nil {
		renderer = render.NoopRenderer{}
	}
	if source == nil {
		source = input.NewNoopSource()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Host{
		Renderer: renderer,
		Store:    store,
		Input:    source,
		Clock:    clock,
		Interval: DefaultTickInterval,
		Logger:   logger,
		ctx:      ctx,
		surfaces: make(map[scene.ID]Surface),
		wake:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

func (h *Host) SetDispatcher(d Dispatcher) { h.dispatcher = d }

func (h *Host) Add(id scene.ID, s Surface) { h.surfaces[id] = s }

// Remove drops a surface, unmounting it first when it is the mounted one.
func (h *Host) Remove(id scene.ID) {
	s, ok := h.surfaces[id]
	if !ok {
		return
	}
	if h.mounted == s {
		h.unmount()
	}
	delete(h.surfaces, id)
}

// Switch unmounts the current surface and mounts the one registered for id.
func (h *Host) Switch(id scene.ID) error {
	next, ok := h.surfaces[id]
	if !ok {
		return fmt.Errorf("no surface registered for %s", id)
	}
	h.unmount()
	h.Renderer.SetScreen(next)
	if err := next.Start(h.ctx); err != nil {
		h.Renderer.SetScreen(nil)
		return fmt.Errorf("mount %s: %w", id, err)
	}
	h.mounted = next
	h.mountedID = id
	return nil
}

func (h *Host) unmount() {
	if h.mounted == nil {
		return
	}
	if err := h.mounted.Stop(); err != nil {
		h.Logger.Errorf("view", "unmount %s: %v", h.mountedID, err)
	}
	h.mounted = nil
	h.Renderer.SetScreen(nil)
}

// Mounted returns the id of the mounted surface.
func (h *Host) Mounted() (scene.ID, bool) {
	return h.mountedID, h.mounted != nil
}

// Post queues an event for the run loop. Safe from any goroutine and never
// blocks, so surfaces and the controller may post while being dispatched.
func (h *Host) Post(ev scene.Event) {
	h.mu.Lock()
	h.queue = append(h.queue, ev)
	h.mu.Unlock()
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *Host) drain() []scene.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	events := h.queue
	h.queue = nil
	return events
}

// Stop ends Run after the event being dispatched.
func (h *Host) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

func (h *Host) stopped() bool {
	select {
	case <-h.stopCh:
		return true
	default:
		return false
	}
}

// Run dispatches events until Stop or ctx cancellation.
func (h *Host) Run(ctx context.Context) error {
	if h.dispatcher == nil {
		return fmt.Errorf("host has no dispatcher")
	}
	interval := h.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := h.Clock.NewTicker(interval)
	defer ticker.Stop()

	keys := h.Input.Keys()
	h.redraw()
	for !h.stopped() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.stopCh:
			return nil
		case <-h.wake:
			for _, ev := range h.drain() {
				if h.stopped() {
					break
				}
				h.dispatch(ev)
			}
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			h.handleKey(key)
		case <-ticker.Chan():
			h.dispatcher.HandleTick()
		}
		h.redraw()
	}
	return nil
}

func (h *Host) dispatch(ev scene.Event) {
	switch ev.Type {
	case scene.EventBack:
		h.back()
	case scene.EventTick:
		h.dispatcher.HandleTick()
	default:
		if !h.dispatcher.HandleCustom(ev) {
			h.Logger.Infof("view", "ignored %s", ev)
		}
	}
}

func (h *Host) handleKey(key input.Key) {
	if h.mounted != nil && h.mounted.HandleKey(key) {
		return
	}
	if key == input.KeyBack {
		h.back()
	}
}

// back gives the controller a chance; an unhandled back ends the session.
func (h *Host) back() {
	if !h.dispatcher.HandleBack() {
		h.Logger.Infof("view", "back not handled in %s, exiting", h.mountedID)
		h.Stop()
	}
}

func (h *Host) redraw() {
	if h.Store == nil {
		return
	}
	h.Renderer.Redraw(h.Store.Snapshot())
}

// Close unmounts the current surface and forgets every registered one.
func (h *Host) Close() {
	h.unmount()
	for id := range h.surfaces {
		delete(h.surfaces, id)
	}
}
