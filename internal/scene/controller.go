package scene

import (
	"errors"
	"path/filepath"

	"github.com/rook-computer/keyplayer/internal/notify"
	"github.com/rook-computer/keyplayer/internal/script"
	"github.com/rook-computer/keyplayer/internal/settings"
	"github.com/rook-computer/keyplayer/internal/state"
)

const (
	NoticeCannotOpen    = "cannot open script"
	NoticeInvalidLayout = "layout must be a 256 byte table"
	NoticeScriptDone    = "script done"
	NoticeScriptFailed  = "script failed"
	errorHint           = "Release the interface and restart"
)

// Host is the view layer as seen by the controller.
type Host interface {
	Switch(id ID) error
	Post(ev Event)
	Stop()
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Controller applies the effects chosen by Transition to the session, the
// host and the display model. It is driven from a single goroutine.
type Controller struct {
	Session  *Session
	Engine   script.Engine
	Host     Host
	Store    *state.Store
	Notifier notify.Notifier
	Logger   Logger
	HelpURL  string

	current      ID
	mounted      bool
	finishPosted bool
}

func NewController(session *Session, engine script.Engine, host Host, store *state.Store, notifier notify.Notifier, logger Logger) *Controller {
	if logger == nil {
		logger = noopLogger{}
	}
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	return &Controller{Session: session, Engine: engine, Host: host, Store: store, Notifier: notifier, Logger: logger}
}

func (c *Controller) Current() ID { return c.current }

// Start enters the initial scene. Work opens the session's target script and
// falls back to FileSelect when that fails.
func (c *Controller) Start(initial ID) error {
	c.publishPrefs()
	switch initial {
	case Work:
		if err := c.apply([]Effect{openScript(c.Session.TargetPath), switchTo(Work)}); err == nil {
			return nil
		}
		return c.apply([]Effect{switchTo(FileSelect)})
	case Error:
		c.Store.UpdateError(state.ErrorInfo{
			Reason:  string(c.Session.Reason),
			Hint:    errorHint,
			HelpURL: c.HelpURL,
		})
		c.Notifier.Notify(notify.Busy)
		return c.apply([]Effect{switchTo(Error)})
	default:
		return c.apply([]Effect{switchTo(initial)})
	}
}

// Dispatch runs ev through the scene table and reports whether the active
// scene handled it.
func (c *Controller) Dispatch(ev Event) bool {
	to, effects, handled := Transition(c.current, ev)
	if !handled {
		return false
	}
	if ev.Type != EventTick {
		if ev.Custom != ScriptFinished {
			c.Store.SetNotice("")
		}
		c.Logger.Infof("scene", "%s: %s -> %s", c.current, ev, to)
	}
	if err := c.apply(effects); err != nil {
		c.Logger.Errorf("scene", "%s in %s: %v", ev, c.current, err)
	}
	return true
}

func (c *Controller) HandleCustom(ev Event) bool { return c.Dispatch(ev) }
func (c *Controller) HandleBack() bool           { return c.Dispatch(Back()) }
func (c *Controller) HandleTick()                { c.Dispatch(Tick()) }

// Close drops the script handle, if any.
func (c *Controller) Close() {
	c.closeScript()
}

var errOpenFailed = errors.New("script open failed")

func (c *Controller) apply(effects []Effect) error {
	for _, eff := range effects {
		switch eff.Kind {
		case EffectOpenScript:
			if err := c.openScript(eff.Path); err != nil {
				return err
			}
		case EffectCloseScript:
			c.closeScript()
		case EffectToggleScript:
			if c.Session.Script != nil {
				if err := c.Session.Script.Toggle(); err != nil {
					c.Logger.Errorf("scene", "toggle failed: %v", err)
				}
			}
		case EffectSetLayout:
			c.setLayout(eff.Path)
		case EffectSetInterface:
			if eff.Interface.Valid() {
				c.Session.Preferences.Interface = eff.Interface
			}
		case EffectRefresh:
			c.refresh()
		case EffectSwitch:
			if err := c.Host.Switch(eff.Scene); err != nil {
				c.recoverSwitch()
				return err
			}
			c.current = eff.Scene
			c.mounted = true
			c.Store.SetScene(eff.Scene.String())
		case EffectExit:
			c.Host.Stop()
		}
	}
	return nil
}

// recoverSwitch runs after a failed switch: the scene stays current, so a
// handle opened for Work is closed and the current surface is mounted again.
func (c *Controller) recoverSwitch() {
	if c.current != Work {
		c.closeScript()
	}
	if !c.mounted {
		return
	}
	if err := c.Host.Switch(c.current); err != nil {
		c.Logger.Errorf("scene", "remount %s: %v", c.current, err)
	}
}

func (c *Controller) openScript(path string) error {
	c.closeScript()
	opts := script.Options{
		LayoutPath: c.Session.Preferences.LayoutPath,
		Interface:  c.Session.Preferences.Interface,
	}
	handle, err := c.Engine.Open(path, opts)
	if err != nil {
		c.Logger.Errorf("scene", "open %s: %v", path, err)
		c.Store.SetNotice(NoticeCannotOpen)
		return errors.Join(errOpenFailed, err)
	}
	c.Session.TargetPath = path
	c.Session.Script = handle
	c.finishPosted = false
	c.Notifier.Notify(notify.Started)
	c.publishScript(handle.Status())
	return nil
}

func (c *Controller) closeScript() {
	if c.Session.Script == nil {
		return
	}
	if err := c.Session.Script.Close(); err != nil {
		c.Logger.Errorf("scene", "close script: %v", err)
	}
	c.Session.Script = nil
	c.Store.UpdateScript(state.ScriptInfo{})
}

func (c *Controller) setLayout(path string) {
	if !settings.ValidLayout(path) {
		c.Logger.Infof("scene", "ignoring layout %s", path)
		c.Store.SetNotice(NoticeInvalidLayout)
		return
	}
	c.Session.Preferences.LayoutPath = path
}

func (c *Controller) refresh() {
	c.publishPrefs()
	if c.Session.Script == nil {
		return
	}
	status := c.Session.Script.Status()
	c.publishScript(status)
	if !status.Finished() || c.finishPosted {
		return
	}
	c.finishPosted = true
	if status.State == script.Failed {
		c.Notifier.Notify(notify.Failed)
		c.Store.SetNotice(NoticeScriptFailed)
	} else {
		c.Notifier.Notify(notify.Done)
		c.Store.SetNotice(NoticeScriptDone)
	}
	c.Host.Post(Custom(ScriptFinished))
}

func (c *Controller) publishPrefs() {
	c.Store.UpdatePrefs(state.PrefsInfo{
		Layout:    filepath.Base(c.Session.Preferences.LayoutPath),
		Interface: c.Session.Preferences.Interface.String(),
	})
}

func (c *Controller) publishScript(status script.Status) {
	info := state.ScriptInfo{
		Name:     filepath.Base(c.Session.TargetPath),
		State:    status.State.String(),
		Line:     status.Line,
		Total:    status.Total,
		Progress: status.Progress(),
	}
	info.Err = status.Err
	c.Store.UpdateScript(info)
}
