package render

import "image/color"

// Global render configuration for colors and logical canvas.
var (
	Foreground = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF} // #000000
	Background = color.RGBA{R: 0xFF, G: 0x82, B: 0x00, A: 0xFF} // #ff8200
	// Highlight fills the selected list row; text on it uses Background.
	Highlight = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}

	// Logical canvas size; scaled to framebuffer.
	CanvasWidth  = 1280
	CanvasHeight = 640

	BodySize  = 40.0
	TitleSize = 56.0
	SmallSize = 28.0
)
