package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInset(t *testing.T) {
	assert.Equal(t, image.Rect(10, 10, 90, 40), Inset(image.Rect(0, 0, 100, 50), 10))
	assert.Equal(t, image.Rect(0, 0, 100, 50), Inset(image.Rect(0, 0, 100, 50), 0))
	assert.True(t, Inset(image.Rect(0, 0, 10, 10), 20).Empty())
}

func TestSplits(t *testing.T) {
	rect := image.Rect(0, 0, 100, 60)

	top, bottom := SplitHorizontal(rect, 20)
	assert.Equal(t, image.Rect(0, 0, 100, 20), top)
	assert.Equal(t, image.Rect(0, 20, 100, 60), bottom)

	left, right := SplitVertical(rect, 500)
	assert.Equal(t, rect, left)
	assert.True(t, right.Empty())

	top, bottom = SplitBottom(rect, 15)
	assert.Equal(t, image.Rect(0, 0, 100, 45), top)
	assert.Equal(t, image.Rect(0, 45, 100, 60), bottom)
}

func TestRows(t *testing.T) {
	rows := Rows(image.Rect(0, 10, 50, 45), 10)

	assert.Equal(t, []image.Rectangle{
		image.Rect(0, 10, 50, 20),
		image.Rect(0, 20, 50, 30),
		image.Rect(0, 30, 50, 40),
	}, rows)
	assert.Nil(t, Rows(image.Rect(0, 0, 10, 10), 0))
}

func TestCenterAndFitSquare(t *testing.T) {
	assert.Equal(t, image.Rect(40, 15, 60, 35), Center(image.Rect(0, 0, 100, 50), 20, 20))
	assert.Equal(t, image.Rect(25, 0, 75, 50), FitSquare(image.Rect(0, 0, 100, 50)))
	assert.Equal(t, image.Rect(0, 0, 100, 50), Center(image.Rect(0, 0, 100, 50), 400, 400))
}
