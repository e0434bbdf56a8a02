package screens

import (
	"context"
	"image"

	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/render/layout"
	"github.com/rook-computer/keyplayer/internal/state"
)

const (
	errorFooter = "Back exit"
	qrSizePx    = 256
)

// ErrorScreen shows why the session cannot continue and a QR code pointing
// at the help page. It consumes no keys; back exits the application.
type ErrorScreen struct {
	Logger Logger

	qrURL string
	qr    image.Image
}

func NewErrorScreen(logger Logger) *ErrorScreen { return &ErrorScreen{Logger: logger} }

func (s *ErrorScreen) Start(ctx context.Context) error { return nil }
func (s *ErrorScreen) Stop() error                     { return nil }

func (s *ErrorScreen) HandleKey(key input.Key) bool { return false }

func (s *ErrorScreen) qrCode(url string) image.Image {
	if url == s.qrURL {
		return s.qr
	}
	img, err := render.HelpCode(url, qrSizePx)
	if err != nil && s.Logger != nil {
		s.Logger.Errorf("screens", "qr for %s: %v", url, err)
	}
	s.qrURL, s.qr = url, img
	return img
}

func (s *ErrorScreen) Draw(d render.Drawer, st state.State) {
	body := d.DrawTitle("Error")
	body = drawFooter(d, body, "", errorFooter)

	text := body
	if qr := s.qrCode(st.Error.HelpURL); qr != nil {
		var code image.Rectangle
		text, code = layout.SplitVertical(body, body.Dx()-min(body.Dx(), body.Dy()))
		d.DrawImageInRect(qr, layout.Inset(layout.FitSquare(code), 8), render.ScaleModeFit)
	}
	rows := textRows(text, 2)
	d.DrawText(st.Error.Reason, rows[0], render.TextStyle{})
	d.DrawText(st.Error.Hint, rows[1], render.TextStyle{Size: render.SmallSize})
}
