package render

import (
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// HelpCode encodes url as a QR code drawn in the screen palette, without the
// quiet-zone border. An empty url yields (nil, nil).
func HelpCode(url string, sizePx int) (image.Image, error) {
	if url == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	code.ForegroundColor = Foreground
	code.BackgroundColor = Background
	code.DisableBorder = true
	return code.Image(sizePx), nil
}
