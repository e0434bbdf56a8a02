package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"
	"sync"

	"github.com/rook-computer/keyplayer/internal/state"
)

const textBarWidth = 20

// TextRenderer writes each frame as plain text lines. The simulator uses it
// in place of the framebuffer.
type TextRenderer struct {
	mu      sync.Mutex
	out     io.Writer
	current Screen
	lines   []string
	last    string
}

func NewTextRenderer(out io.Writer) *TextRenderer {
	return &TextRenderer{out: out}
}

func (r *TextRenderer) Start(ctx context.Context) error { return nil }
func (r *TextRenderer) Stop() error                     { return nil }

func (r *TextRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.mu.Unlock()
}

// Redraw prints the frame unless it is identical to the previous one.
func (r *TextRenderer) Redraw(snap state.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	r.lines = r.lines[:0]
	r.current.Draw(r, snap)
	frame := strings.Join(r.lines, "\n")
	if frame == r.last {
		return
	}
	r.last = frame
	fmt.Fprintf(r.out, "----\n%s\n", frame)
}

// Frame returns the text of the last printed frame.
func (r *TextRenderer) Frame() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *TextRenderer) Size() (int, int) { return CanvasWidth, CanvasHeight }

func (r *TextRenderer) FillBackground() {}

func (r *TextRenderer) DrawTitle(text string) image.Rectangle {
	r.lines = append(r.lines, "# "+text)
	return image.Rect(0, 0, CanvasWidth, CanvasHeight)
}

func (r *TextRenderer) DrawText(text string, rect image.Rectangle, style TextStyle) {
	r.lines = append(r.lines, text)
}

func (r *TextRenderer) DrawTextCentered(text string) {
	r.lines = append(r.lines, text)
}

func (r *TextRenderer) DrawList(rect image.Rectangle, items []string, selected int) {
	if len(items) == 0 {
		r.lines = append(r.lines, "  (empty)")
		return
	}
	for i, item := range items {
		marker := "  "
		if i == selected {
			marker = "> "
		}
		r.lines = append(r.lines, marker+item)
	}
}

func (r *TextRenderer) DrawProgress(rect image.Rectangle, fraction float64) {
	fraction = clampFraction(fraction)
	filled := int(fraction * textBarWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", textBarWidth-filled)
	r.lines = append(r.lines, fmt.Sprintf("[%s] %3d%%", bar, int(fraction*100)))
}

func (r *TextRenderer) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {
	if img == nil {
		return
	}
	b := img.Bounds()
	r.lines = append(r.lines, fmt.Sprintf("[image %dx%d]", b.Dx(), b.Dy()))
}
