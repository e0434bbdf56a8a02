// Package assets holds the fonts drawn by the framebuffer renderer.
package assets

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// BodyTTF is the face used for lists, status lines and hints.
var BodyTTF = goregular.TTF

// TitleTTF is the face used for scene titles.
var TitleTTF = gobold.TTF
