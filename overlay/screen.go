package overlay

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// Bounds returns the box as an integer image rectangle, rounding each edge to
// the nearest pixel.
func (b ScreenBox) Bounds() image.Rectangle {
	return image.Rect(
		pixel(b.Rect.Left),
		pixel(b.Rect.Top),
		pixel(b.Rect.Right()),
		pixel(b.Rect.Bottom()),
	)
}

// LabelPoint returns the label anchor as an integer image point.
func (b ScreenBox) LabelPoint() image.Point {
	return image.Pt(pixel(b.Anchor.X), pixel(b.Anchor.Y))
}

// Caption returns the label text drawn above the box, e.g. "person 0.87".
func (b ScreenBox) Caption() string {
	return fmt.Sprintf("%s %.2f", b.Label, b.Confidence)
}

// pixel rounds half up to the nearest integer coordinate.
func pixel(v float32) int {
	return int(math32.Floor(v + 0.5))
}
