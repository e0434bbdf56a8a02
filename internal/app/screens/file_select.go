package screens

import (
	"context"
	"path"

	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/picker"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/scene"
	"github.com/rook-computer/keyplayer/internal/state"
)

const fileSelectHint = "OK run   > config   < exit"

// FileSelectScreen browses *.txt scripts under the base folder.
type FileSelectScreen struct {
	Browser *picker.Browser
	Poster  Poster
	Store   *state.Store

	last string
}

func NewFileSelectScreen(baseFolder string, poster Poster, store *state.Store) *FileSelectScreen {
	return &FileSelectScreen{
		Browser: picker.New(baseFolder, ".txt"),
		Poster:  poster,
		Store:   store,
	}
}

// Start reopens the browser where the last script was chosen.
func (s *FileSelectScreen) Start(ctx context.Context) error {
	s.Browser.Open(s.last)
	s.publish()
	return nil
}

func (s *FileSelectScreen) Stop() error { return nil }

func (s *FileSelectScreen) HandleKey(key input.Key) bool {
	switch key {
	case input.KeyUp:
		s.Browser.Up()
	case input.KeyDown:
		s.Browser.Down()
	case input.KeyOK:
		if p, ok := s.Browser.Select(); ok {
			s.last = p
			s.Poster.Post(scene.FileChosenEvent(p))
		}
	case input.KeyRight:
		s.Poster.Post(scene.Custom(scene.OpenConfig))
	case input.KeyLeft:
		s.Poster.Post(scene.Custom(scene.FileCancelled))
	case input.KeyBack:
		if !s.Browser.Back() {
			return false
		}
	default:
		return false
	}
	s.publish()
	return true
}

func (s *FileSelectScreen) publish() {
	s.Store.UpdateBrowser(s.Browser.Info("Scripts"))
}

func (s *FileSelectScreen) Draw(d render.Drawer, st state.State) {
	title := st.Browser.Title
	if st.Browser.Dir != "" {
		title = path.Join(title, st.Browser.Dir)
	}
	body := d.DrawTitle(title)
	body = drawFooter(d, body, st.Notice, fileSelectHint)
	if len(st.Browser.Entries) == 0 {
		d.DrawText("No scripts found", body, render.TextStyle{Align: render.TextAlignCenter})
		return
	}
	d.DrawList(body, entryNames(st.Browser.Entries), st.Browser.Selected)
}
