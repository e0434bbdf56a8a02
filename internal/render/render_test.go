package render

import (
	"bytes"
	"context"
	"image"
	"strings"
	"testing"

	"github.com/rook-computer/keyplayer/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawFunc func(d Drawer, s state.State)

func (f drawFunc) Start(ctx context.Context) error { return nil }
func (f drawFunc) Stop() error                     { return nil }
func (f drawFunc) Draw(d Drawer, s state.State)    { f(d, s) }

func TestTextRendererFrame(t *testing.T) {
	var out bytes.Buffer
	r := NewTextRenderer(&out)
	r.SetScreen(drawFunc(func(d Drawer, s state.State) {
		body := d.DrawTitle("Scripts")
		d.DrawList(body, []string{"a.txt", "b.txt"}, 1)
		d.DrawProgress(body, s.Script.Progress)
	}))

	r.Redraw(state.State{Script: state.ScriptInfo{Progress: 0.5}})

	assert.Equal(t, "# Scripts\n  a.txt\n> b.txt\n[##########..........]  50%", r.Frame())
	assert.True(t, strings.HasPrefix(out.String(), "----\n# Scripts"))
}

func TestTextRendererSkipsIdenticalFrames(t *testing.T) {
	var out bytes.Buffer
	r := NewTextRenderer(&out)
	r.SetScreen(drawFunc(func(d Drawer, s state.State) { d.DrawTextCentered(s.Notice) }))

	r.Redraw(state.State{Notice: "one"})
	r.Redraw(state.State{Notice: "one"})
	r.Redraw(state.State{Notice: "two"})

	assert.Equal(t, 2, strings.Count(out.String(), "----"))
}

func TestTextRendererWithoutScreen(t *testing.T) {
	var out bytes.Buffer
	r := NewTextRenderer(&out)

	r.Redraw(state.State{})

	assert.Empty(t, out.String())
}

func TestVisibleWindow(t *testing.T) {
	assert.Equal(t, 0, visibleWindow(3, 2, 5))
	assert.Equal(t, 0, visibleWindow(10, 1, 4))
	assert.Equal(t, 4, visibleWindow(10, 6, 4))
	assert.Equal(t, 6, visibleWindow(10, 9, 4))
}

func TestScaleRects(t *testing.T) {
	src := image.Rect(0, 0, 100, 100)

	dst, s := scaleRects(src, image.Rect(0, 0, 200, 100), ScaleModeFit)
	assert.Equal(t, image.Rect(50, 0, 150, 100), dst)
	assert.Equal(t, src, s)

	dst, s = scaleRects(src, image.Rect(0, 0, 200, 100), ScaleModeFill)
	assert.Equal(t, image.Rect(0, 0, 200, 100), dst)
	assert.Equal(t, image.Rect(0, 25, 100, 75), s)

	dst, _ = scaleRects(src, image.Rect(0, 0, 10, 30), ScaleModeStretch)
	assert.Equal(t, image.Rect(0, 0, 10, 30), dst)

	dst, _ = scaleRects(image.Rectangle{}, image.Rect(0, 0, 10, 10), ScaleModeFit)
	assert.True(t, dst.Empty())
}

func TestFBRendererDrawsIntoCanvas(t *testing.T) {
	r := NewFBRenderer("")
	r.initCanvas()

	r.FillBackground()
	r.DrawProgress(image.Rect(0, 0, 100, 20), 0.5)

	assert.Equal(t, Foreground, r.canvas.RGBAAt(10, 10))
	assert.Equal(t, Background, r.canvas.RGBAAt(90, 10))

	body := r.DrawTitle("Error")
	assert.False(t, body.Empty())
	assert.True(t, body.In(r.canvas.Bounds()))
}

func TestFBRendererDrawsQRCode(t *testing.T) {
	r := NewFBRenderer("")
	r.initCanvas()
	r.FillBackground()
	img, err := HelpCode("https://example.com/help", 0)
	require.NoError(t, err)

	r.DrawImageInRect(img, image.Rect(0, 0, 300, 300), ScaleModeFit)

	dark := 0
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			if r.canvas.RGBAAt(x, y).R == 0 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 0)
}

func TestHelpCodeUsesPaletteWithoutBorder(t *testing.T) {
	img, err := HelpCode("https://docs.flipper.net/bad-usb", 128)
	require.NoError(t, err)

	dark, light := 0, 0
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			require.False(t, r == 0xffff && g == 0xffff && b == 0xffff, "white pixel at %d,%d", x, y)
			switch {
			case r == 0 && g == 0 && b == 0:
				dark++
			case r>>8 == 0xff && g>>8 == 0x82 && b == 0:
				light++
			}
		}
	}
	assert.Greater(t, dark, 0)
	assert.Greater(t, light, 0)
}

func TestHelpCodeEmpty(t *testing.T) {
	img, err := HelpCode("", 64)
	assert.NoError(t, err)
	assert.Nil(t, img)
}
