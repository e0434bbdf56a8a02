package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	if out.Dx() <= 0 || out.Dy() <= 0 {
		c := Normalize(rect).Min.Add(image.Pt(rect.Dx()/2, rect.Dy()/2))
		return image.Rectangle{Min: c, Max: c}
	}
	return out
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitVertical splits rect into left and right parts.
// leftWidthPx is clamped to [0, rect.Dx()].
func SplitVertical(rect image.Rectangle, leftWidthPx int) (left image.Rectangle, right image.Rectangle) {
	rect = Normalize(rect)
	leftWidthPx = clamp(leftWidthPx, 0, rect.Dx())
	left = image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftWidthPx, rect.Max.Y)
	right = image.Rect(rect.Min.X+leftWidthPx, rect.Min.Y, rect.Max.X, rect.Max.Y)
	return left, right
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	topHeightPx = clamp(topHeightPx, 0, rect.Dy())
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// SplitBottom carves heightPx off the bottom of rect.
func SplitBottom(rect image.Rectangle, heightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	return SplitHorizontal(rect, rect.Dy()-clamp(heightPx, 0, rect.Dy()))
}

// Rows cuts rect into consecutive rows of rowHeightPx. A trailing partial
// row is dropped.
func Rows(rect image.Rectangle, rowHeightPx int) []image.Rectangle {
	rect = Normalize(rect)
	if rowHeightPx <= 0 {
		return nil
	}
	var rows []image.Rectangle
	for y := rect.Min.Y; y+rowHeightPx <= rect.Max.Y; y += rowHeightPx {
		rows = append(rows, image.Rect(rect.Min.X, y, rect.Max.X, y+rowHeightPx))
	}
	return rows
}

// Center returns a widthPx x heightPx rectangle centered in rect, clamped to rect.
func Center(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	heightPx = clamp(heightPx, 0, rect.Dy())
	x := rect.Min.X + (rect.Dx()-widthPx)/2
	y := rect.Min.Y + (rect.Dy()-heightPx)/2
	return image.Rect(x, y, x+widthPx, y+heightPx)
}

// FitSquare returns the largest square that fits into rect, centered.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := rect.Dx()
	if rect.Dy() < size {
		size = rect.Dy()
	}
	return Center(rect, size, size)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
