package screens

import (
	"context"
	"fmt"

	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/render/layout"
	"github.com/rook-computer/keyplayer/internal/scene"
	"github.com/rook-computer/keyplayer/internal/state"
)

const workHint = "OK run/pause   Back stop"

type WorkScreen struct {
	Poster Poster
}

func NewWorkScreen(poster Poster) *WorkScreen { return &WorkScreen{Poster: poster} }

func (s *WorkScreen) Start(ctx context.Context) error { return nil }
func (s *WorkScreen) Stop() error                     { return nil }

func (s *WorkScreen) HandleKey(key input.Key) bool {
	if key != input.KeyOK {
		return false
	}
	s.Poster.Post(scene.Custom(scene.ToggleScript))
	return true
}

func (s *WorkScreen) Draw(d render.Drawer, st state.State) {
	body := d.DrawTitle(st.Script.Name)
	body = drawFooter(d, body, st.Notice, workHint)
	rows := textRows(body, 3)

	status := fmt.Sprintf("%s   %s / %s", st.Script.State, st.Prefs.Interface, st.Prefs.Layout)
	d.DrawText(status, rows[0], render.TextStyle{})
	d.DrawProgress(layout.Inset(rows[1], 8), st.Script.Progress)
	line := fmt.Sprintf("line %d of %d", st.Script.Line, st.Script.Total)
	if st.Script.Err != "" {
		line = st.Script.Err
	}
	d.DrawText(line, rows[2], render.TextStyle{Size: render.SmallSize})
}
