// Package screens holds the surfaces mounted by the view host, one per scene.
package screens

import (
	"image"

	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/render/layout"
	"github.com/rook-computer/keyplayer/internal/scene"
	"github.com/rook-computer/keyplayer/internal/state"
)

// Poster is implemented by the view host.
type Poster interface {
	Post(ev scene.Event)
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

const (
	footerPx   = 56
	lineFactor = 1.6
)

func entryNames(entries []state.Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		if e.Dir {
			names[i] = e.Name + "/"
		} else {
			names[i] = e.Name
		}
	}
	return names
}

// drawFooter writes the notice, or the hint when there is none, along the
// bottom of body and returns what is left above it.
func drawFooter(d render.Drawer, body image.Rectangle, notice, hint string) image.Rectangle {
	rest, footer := layout.SplitBottom(body, footerPx)
	text := hint
	if notice != "" {
		text = notice
	}
	d.DrawText(text, footer, render.TextStyle{Size: render.SmallSize, Align: render.TextAlignCenter})
	return rest
}

// textRows splits rect into rows tall enough for body text.
func textRows(rect image.Rectangle, n int) []image.Rectangle {
	rows := layout.Rows(rect, int(render.BodySize*lineFactor))
	for len(rows) < n {
		rows = append(rows, image.Rectangle{})
	}
	return rows
}
