package render

import (
	"context"
	"image"
	"image/color"

	"github.com/rook-computer/keyplayer/internal/state"
)

type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	SetScreen(screen Screen)
	Redraw(snap state.State)
}

// Screen is a surface that knows how to draw a snapshot. Start and Stop
// bracket the time the screen is mounted.
type Screen interface {
	Start(ctx context.Context) error
	Stop() error
	Draw(d Drawer, s state.State)
}

type NoopRenderer struct{}

func (NoopRenderer) Start(ctx context.Context) error { return nil }
func (NoopRenderer) Stop() error                     { return nil }
func (NoopRenderer) SetScreen(screen Screen)         {}
func (NoopRenderer) Redraw(snap state.State)         {}

// Drawer is an abstraction the renderer provides to screens to draw primitives
// without exposing low-level framebuffer details.
type Drawer interface {
	// Size returns the logical canvas size (in pixels) that screens draw into.
	Size() (width int, height int)

	FillBackground()

	DrawTitle(text string) image.Rectangle
	DrawText(text string, rect image.Rectangle, style TextStyle)
	DrawTextCentered(text string)

	// DrawList draws one row per item and highlights the selected one.
	// Rows that do not fit are scrolled so that selected stays visible.
	DrawList(rect image.Rectangle, items []string, selected int)
	DrawProgress(rect image.Rectangle, fraction float64)

	DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode)
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how to render text inside a rectangle.
// Text is vertically centered in the rectangle; Align controls X.
type TextStyle struct {
	Color color.Color
	Size  float64 // font size in points; 0 means BodySize
	Align TextAlign
}

type ScaleMode int

const (
	ScaleModeFit ScaleMode = iota
	ScaleModeFill
	ScaleModeStretch
)

// visibleWindow returns the first item index to draw so that selected is
// inside a window of rows items.
func visibleWindow(count, selected, rows int) int {
	if rows <= 0 || count <= rows {
		return 0
	}
	first := selected - rows/2
	if first < 0 {
		first = 0
	}
	if first > count-rows {
		first = count - rows
	}
	return first
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
