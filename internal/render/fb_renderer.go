package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"

	"github.com/golang/freetype/truetype"
	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/keyplayer/internal/assets"
	"github.com/rook-computer/keyplayer/internal/render/layout"
	"github.com/rook-computer/keyplayer/internal/state"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	marginPx  = 32
	borderPx  = 4
	rowFactor = 1.5
)

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas.
type FBRenderer struct {
	Path   string
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	mu        sync.Mutex
	fbDev     *fb.Device
	canvas    *image.RGBA
	ttFont    *truetype.Font
	titleFace font.Face
	faces     map[float64]font.Face
	running   atomic.Bool
	current   Screen
}

func NewFBRenderer(path string) *FBRenderer {
	if path == "" {
		path = "/dev/fb0"
	}
	return &FBRenderer{Path: path}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	dev, err := fb.Open(r.Path)
	if err != nil {
		return err
	}
	r.fbDev = dev
	bounds := dev.Bounds()
	r.infof("framebuffer %s open, bounds=%dx%d", r.Path, bounds.Dx(), bounds.Dy())

	r.initCanvas()
	r.running.Store(true)
	return nil
}

// initCanvas prepares the offscreen canvas and font faces. A font that fails
// to parse degrades to basicfont rather than failing the renderer.
func (r *FBRenderer) initCanvas() {
	r.canvas = image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	r.faces = make(map[float64]font.Face)

	if tt, err := truetype.Parse(assets.BodyTTF); err != nil {
		r.errorf("truetype parse failed, using basicfont: %v", err)
	} else {
		r.ttFont = tt
	}

	r.titleFace = basicfont.Face7x13
	fnt, err := opentype.Parse(assets.TitleTTF)
	if err != nil {
		r.errorf("title font parse failed, using basicfont: %v", err)
		return
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: TitleSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		r.errorf("title face create failed, using basicfont: %v", err)
		return
	}
	r.titleFace = face
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

// SetScreen sets the current logical screen to be drawn.
func (r *FBRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.mu.Unlock()
}

// Redraw draws the current screen with snap and pushes the frame out.
func (r *FBRenderer) Redraw(snap state.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running.Load() || r.current == nil || r.fbDev == nil {
		return
	}
	r.FillBackground()
	r.current.Draw(r, snap)
	blitToFB(r.fbDev, r.canvas)
}

func (r *FBRenderer) Size() (int, int) { return CanvasWidth, CanvasHeight }

func (r *FBRenderer) FillBackground() {
	draw.Draw(r.canvas, r.canvas.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
}

func (r *FBRenderer) DrawTitle(text string) image.Rectangle {
	full := layout.Inset(r.canvas.Bounds(), marginPx)
	band, body := layout.SplitHorizontal(full, int(TitleSize*rowFactor))
	r.drawString(text, band, r.titleFace, Foreground, TextAlignLeft)
	line := image.Rect(band.Min.X, band.Max.Y-borderPx, band.Max.X, band.Max.Y)
	draw.Draw(r.canvas, line, &image.Uniform{C: Foreground}, image.Point{}, draw.Src)
	return layout.Inset(body, marginPx/2)
}

func (r *FBRenderer) DrawText(text string, rect image.Rectangle, style TextStyle) {
	c := style.Color
	if c == nil {
		c = Foreground
	}
	r.drawString(text, rect, r.faceFor(style.Size), c, style.Align)
}

func (r *FBRenderer) DrawTextCentered(text string) {
	r.drawString(text, r.canvas.Bounds(), r.faceFor(BodySize), Foreground, TextAlignCenter)
}

func (r *FBRenderer) DrawList(rect image.Rectangle, items []string, selected int) {
	face := r.faceFor(BodySize)
	rows := layout.Rows(rect, int(BodySize*rowFactor))
	first := visibleWindow(len(items), selected, len(rows))
	for i, row := range rows {
		idx := first + i
		if idx >= len(items) {
			break
		}
		fg := color.Color(Foreground)
		if idx == selected {
			draw.Draw(r.canvas, row, &image.Uniform{C: Highlight}, image.Point{}, draw.Src)
			fg = Background
		}
		r.drawString(items[idx], layout.Inset(row, borderPx*2), face, fg, TextAlignLeft)
	}
}

func (r *FBRenderer) DrawProgress(rect image.Rectangle, fraction float64) {
	rect = layout.Normalize(rect)
	draw.Draw(r.canvas, rect, &image.Uniform{C: Foreground}, image.Point{}, draw.Src)
	inner := layout.Inset(rect, borderPx)
	draw.Draw(r.canvas, inner, &image.Uniform{C: Background}, image.Point{}, draw.Src)
	filled, _ := layout.SplitVertical(inner, int(float64(inner.Dx())*clampFraction(fraction)))
	draw.Draw(r.canvas, filled, &image.Uniform{C: Foreground}, image.Point{}, draw.Src)
}

func (r *FBRenderer) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {
	if img == nil {
		return
	}
	dst, src := scaleRects(img.Bounds(), rect, mode)
	if dst.Empty() || src.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(r.canvas, dst, img, src, xdraw.Over, nil)
}

func (r *FBRenderer) faceFor(size float64) font.Face {
	if size <= 0 {
		size = BodySize
	}
	if r.ttFont == nil {
		return basicfont.Face7x13
	}
	if face, ok := r.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(r.ttFont, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	r.faces[size] = face
	return face
}

// drawString draws text vertically centered in rect. Text is not clipped.
func (r *FBRenderer) drawString(text string, rect image.Rectangle, face font.Face, fg color.Color, align TextAlign) {
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	width := font.MeasureString(face, text).Ceil()

	x := rect.Min.X
	switch align {
	case TextAlignCenter:
		x = rect.Min.X + (rect.Dx()-width)/2
	case TextAlignRight:
		x = rect.Max.X - width
	}
	baseline := rect.Min.Y + (rect.Dy()+ascent-descent)/2

	drawer := &font.Drawer{Dst: r.canvas, Src: image.NewUniform(fg), Face: face}
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func (r *FBRenderer) infof(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Infof("fb", format, args...)
	}
}

func (r *FBRenderer) errorf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Errorf("fb", format, args...)
	}
}

// Helper: blit canvas to framebuffer via nearest-neighbor scaling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) {
	bounds := dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	for y := 0; y < fbHeight; y++ {
		sy := (y * CanvasHeight) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * CanvasWidth) / fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}

// scaleRects returns the destination rectangle inside rect and the source
// rectangle of an image with bounds src for the given mode.
func scaleRects(src, rect image.Rectangle, mode ScaleMode) (image.Rectangle, image.Rectangle) {
	rect = layout.Normalize(rect)
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 || rect.Empty() {
		return image.Rectangle{}, image.Rectangle{}
	}
	switch mode {
	case ScaleModeStretch:
		return rect, src
	case ScaleModeFill:
		// Crop the source to the destination aspect ratio.
		cw, ch := sw, sh
		if sw*rect.Dy() > sh*rect.Dx() {
			cw = sh * rect.Dx() / rect.Dy()
		} else {
			ch = sw * rect.Dy() / rect.Dx()
		}
		return rect, layout.Center(src, cw, ch)
	default:
		w, h := rect.Dx(), rect.Dx()*sh/sw
		if h > rect.Dy() {
			w, h = rect.Dy()*sw/sh, rect.Dy()
		}
		return layout.Center(rect, w, h), src
	}
}
