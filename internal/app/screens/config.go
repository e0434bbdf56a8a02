package screens

import (
	"context"

	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/picker"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/scene"
	"github.com/rook-computer/keyplayer/internal/settings"
	"github.com/rook-computer/keyplayer/internal/state"
)

const (
	itemLayout = iota
	itemInterface
	itemCount
)

const (
	configHint = "OK choose   < > switch   Back done"
	layoutHint = "OK pick layout   Back cancel"
)

// ConfigScreen edits the session preferences: the keyboard layout through a
// *.kl browser and the interface with Left/Right.
type ConfigScreen struct {
	Layouts *picker.Browser
	Session *scene.Session
	Poster  Poster
	Store   *state.Store

	selected int
	choosing bool
}

func NewConfigScreen(layoutFolder string, session *scene.Session, poster Poster, store *state.Store) *ConfigScreen {
	return &ConfigScreen{
		Layouts: picker.New(layoutFolder, ".kl"),
		Session: session,
		Poster:  poster,
		Store:   store,
	}
}

func (s *ConfigScreen) Start(ctx context.Context) error {
	s.selected = itemLayout
	s.choosing = false
	s.publish()
	return nil
}

func (s *ConfigScreen) Stop() error {
	s.choosing = false
	return nil
}

func (s *ConfigScreen) HandleKey(key input.Key) bool {
	if s.choosing {
		s.handleChooser(key)
		s.publish()
		return true
	}
	switch key {
	case input.KeyUp:
		s.selected = (s.selected - 1 + itemCount) % itemCount
	case input.KeyDown:
		s.selected = (s.selected + 1) % itemCount
	case input.KeyOK:
		if s.selected != itemLayout {
			return true
		}
		s.choosing = true
		s.Layouts.Open(s.Session.Preferences.LayoutPath)
	case input.KeyLeft, input.KeyRight:
		if s.selected != itemInterface {
			return true
		}
		s.Poster.Post(scene.InterfaceChangedEvent(nextInterface(s.Session.Preferences.Interface, key == input.KeyLeft)))
	default:
		return false
	}
	s.publish()
	return true
}

func (s *ConfigScreen) handleChooser(key input.Key) {
	switch key {
	case input.KeyUp:
		s.Layouts.Up()
	case input.KeyDown:
		s.Layouts.Down()
	case input.KeyOK:
		if p, ok := s.Layouts.Select(); ok {
			s.choosing = false
			s.Poster.Post(scene.LayoutChangedEvent(p))
		}
	case input.KeyBack, input.KeyLeft:
		if !s.Layouts.Back() {
			s.choosing = false
		}
	}
}

func nextInterface(cur settings.Interface, backwards bool) settings.Interface {
	if !backwards {
		return cur.Next()
	}
	prev := cur
	for next := cur.Next(); next != cur; next = next.Next() {
		prev = next
	}
	return prev
}

func (s *ConfigScreen) publish() {
	s.Store.UpdateConfig(state.ConfigInfo{Selected: s.selected, Choosing: s.choosing})
	if s.choosing {
		s.Store.UpdateBrowser(s.Layouts.Info("Layouts"))
	}
}

func (s *ConfigScreen) Draw(d render.Drawer, st state.State) {
	if st.Config.Choosing {
		body := d.DrawTitle(st.Browser.Title)
		body = drawFooter(d, body, st.Notice, layoutHint)
		if len(st.Browser.Entries) == 0 {
			d.DrawText("No layouts found", body, render.TextStyle{Align: render.TextAlignCenter})
			return
		}
		d.DrawList(body, entryNames(st.Browser.Entries), st.Browser.Selected)
		return
	}
	body := d.DrawTitle("Config")
	body = drawFooter(d, body, st.Notice, configHint)
	items := []string{
		"Keyboard layout: " + st.Prefs.Layout,
		"Interface: < " + st.Prefs.Interface + " >",
	}
	d.DrawList(body, items, st.Config.Selected)
}
