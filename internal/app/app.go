// Package app is the composition root of the keystroke player: it loads the
// preferences, opens the collaborators, claims the USB interface and runs
// the scene host until the user leaves. Close undoes all of it in reverse.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rook-computer/keyplayer/internal/app/screens"
	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/notify"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/scene"
	"github.com/rook-computer/keyplayer/internal/script"
	"github.com/rook-computer/keyplayer/internal/settings"
	"github.com/rook-computer/keyplayer/internal/state"
	"github.com/rook-computer/keyplayer/internal/usb"
	"github.com/rook-computer/keyplayer/internal/view"
)

// Options are the collaborators and paths of one run. Renderer, Input,
// Notifier and Clock default to no-op or real implementations.
type Options struct {
	TargetPath   string
	BaseFolder   string
	LayoutFolder string
	HelpURL      string
	TickInterval time.Duration

	Settings *settings.Store
	Port     usb.Port
	Engine   script.Engine
	Renderer render.Renderer
	Input    input.Source
	Notifier notify.Notifier
	Clock    clockwork.Clock
	Logger   Logger
	// Store receives the display snapshots; a private one is used when nil.
	Store *state.Store
}

type App struct {
	opts       Options
	logger     Logger
	session    *scene.Session
	store      *state.Store
	host       *view.Host
	controller *scene.Controller
	token      *usb.Token
	initial    scene.ID

	rendererOpen bool
	inputOpen    bool
	closed       atomic.Bool
}

// New runs the startup sequence. It fails only when a collaborator cannot be
// opened; a busy interface is not an error and leads to the Error scene.
func New(ctx context.Context, opts Options) (*App, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.defaults()
	app := &App{opts: opts, logger: opts.Logger, store: opts.Store}

	// 1. preferences
	app.session = &scene.Session{
		TargetPath:  opts.TargetPath,
		BaseFolder:  opts.BaseFolder,
		Preferences: opts.Settings.Load(),
	}
	app.logger.Infof("app", "preferences: layout=%s interface=%s",
		app.session.Preferences.LayoutPath, app.session.Preferences.Interface)

	// 2. collaborators
	if err := app.openCollaborators(ctx); err != nil {
		app.closeCollaborators()
		return nil, err
	}

	// 3. host, controller and surfaces
	app.host = view.NewHost(ctx, opts.Renderer, app.store, opts.Input, opts.Clock, opts.Logger)
	app.host.Interval = opts.TickInterval
	app.controller = scene.NewController(app.session, opts.Engine, app.host, app.store, opts.Notifier, opts.Logger)
	app.controller.HelpURL = opts.HelpURL
	app.host.SetDispatcher(app.controller)
	app.host.Add(scene.FileSelect, screens.NewFileSelectScreen(opts.BaseFolder, app.host, app.store))
	app.host.Add(scene.Config, screens.NewConfigScreen(opts.LayoutFolder, app.session, app.host, app.store))
	app.host.Add(scene.Work, screens.NewWorkScreen(app.host))
	app.host.Add(scene.Error, screens.NewErrorScreen(opts.Logger))

	// 4. claim the interface and pick the first scene
	app.initial = app.acquire()
	if err := app.controller.Start(app.initial); err != nil {
		app.logger.Errorf("app", "start %s: %v", app.initial, err)
	}
	return app, nil
}

func (opts *Options) validate() error {
	switch {
	case opts.Settings == nil:
		return errors.New("app: settings store is required")
	case opts.Port == nil:
		return errors.New("app: usb port is required")
	case opts.Engine == nil:
		return errors.New("app: script engine is required")
	}
	return nil
}

func (opts *Options) defaults() {
	if opts.Logger == nil {
		opts.Logger = NoopLogger{}
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NoopRenderer{}
	}
	if opts.Input == nil {
		opts.Input = input.NewNoopSource()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NoopNotifier{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = view.DefaultTickInterval
	}
	if opts.Store == nil {
		opts.Store = state.NewStore()
	}
}

func (app *App) openCollaborators(ctx context.Context) error {
	if err := app.opts.Renderer.Start(ctx); err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	app.rendererOpen = true
	if err := app.opts.Input.Start(ctx); err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	app.inputOpen = true
	return nil
}

func (app *App) acquire() scene.ID {
	guard := usb.NewGuard(app.opts.Port, app.opts.Logger)
	token, err := guard.Acquire()
	switch {
	case errors.Is(err, usb.ErrBusy):
		app.logger.Errorf("app", "usb interface busy")
		app.session.Reason = scene.ReasonInterfaceBusy
		return scene.Error
	case err != nil:
		app.logger.Errorf("app", "usb acquire failed: %v", err)
		app.session.Reason = scene.ReasonInterfaceUnavailable
		return scene.Error
	}
	app.token = token
	if app.session.TargetPath != "" {
		return scene.Work
	}
	return scene.FileSelect
}

// Run dispatches events until the user leaves or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	if app.closed.Load() {
		return errors.New("app: already closed")
	}
	err := app.host.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close runs the teardown sequence once; later calls do nothing.
func (app *App) Close() error {
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}
	// 1. script handle
	app.controller.Close()
	// 2. surfaces
	app.host.Close()
	// 3. collaborators
	app.closeCollaborators()
	// 4. preferences, best effort
	if err := app.opts.Settings.Save(app.session.Preferences); err != nil {
		app.logger.Errorf("app", "save preferences: %v", err)
	}
	// 5. interface
	if app.token == nil {
		return nil
	}
	if err := app.token.Release(); err != nil {
		return err
	}
	return nil
}

func (app *App) closeCollaborators() {
	if app.inputOpen {
		if err := app.opts.Input.Stop(); err != nil {
			app.logger.Errorf("app", "close input: %v", err)
		}
		app.inputOpen = false
	}
	if app.rendererOpen {
		if err := app.opts.Renderer.Stop(); err != nil {
			app.logger.Errorf("app", "close display: %v", err)
		}
		app.rendererOpen = false
	}
	if err := app.opts.Notifier.Close(); err != nil {
		app.logger.Errorf("app", "close notifier: %v", err)
	}
}

// Scene is the active scene.
func (app *App) Scene() scene.ID { return app.controller.Current() }

// Session exposes the runtime session, mainly for tests.
func (app *App) Session() *scene.Session { return app.session }

// Holding reports whether the interface token is held.
func (app *App) Holding() bool { return app.token != nil }

// Execute brackets one run: whatever way Run ends, including a panic, Close
// has restored the interface before Execute returns or unwinds.
func Execute(ctx context.Context, opts Options) (err error) {
	app, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return app.Run(ctx)
}
