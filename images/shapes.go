// Package images - Geometry primitives for detection boxes and overlay rectangles.
package images

import "github.com/chewxy/math32"

// Box is a center-form bounding box in model space.
type Box struct {
	// X, Y are the center coordinates.
	X, Y float32
	// Width, Height are the box extents.
	Width, Height float32
}

// Rect is a top-left form rectangle in screen space.
type Rect struct {
	Left, Top     float32
	Width, Height float32
}

// Point is a position in screen space.
type Point struct {
	X, Y float32
}

// Size is the extent of a rendering surface.
type Size struct {
	Width  float32 `json:"width" yaml:"width"`
	Height float32 `json:"height" yaml:"height"`
}

// Corners returns the top-left and bottom-right corners of the box.
func (b Box) Corners() (x1, y1, x2, y2 float32) {
	return b.X - b.Width/2, b.Y - b.Height/2, b.X + b.Width/2, b.Y + b.Height/2
}

// Area returns the area of the box.
func (b Box) Area() float32 {
	return b.Width * b.Height
}

// Right returns the right edge of the rectangle.
func (r Rect) Right() float32 {
	return r.Left + r.Width
}

// Bottom returns the bottom edge of the rectangle.
func (r Rect) Bottom() float32 {
	return r.Top + r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// CalculateIoU measures the overlap between two center-form boxes as
// Intersection over Union.
//
// See also:
//   - http://ronny.rest/tutorials/module/localization_001/iou
//
// The boxes are converted to corners at (x ± w/2, y ± h/2). The overlap on each
// axis is clamped to zero, so boxes that only touch or do not meet have an
// intersection of 0. The union follows inclusion-exclusion:
//
//	Area(Union) = Area(A) + Area(B) - Area(Intersection)
//
// When both boxes have zero area the union is 0 and the IoU is reported as 0
// instead of NaN.
//
// Arguments:
//   - a: The first box.
//   - b: The other box to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0 representing the IoU score.
//
// Example Usage:
// ```go
//
//	a := Box{X: 5, Y: 5, Width: 10, Height: 10}
//	b := Box{X: 10, Y: 10, Width: 10, Height: 10}
//
//	score := CalculateIoU(a, b) // intersection=25, union=175, score≈0.142857
//
// ```
func CalculateIoU(a, b Box) float32 {
	ax1, ay1, ax2, ay2 := a.Corners()
	bx1, by1, bx2, by2 := b.Corners()

	interW := math32.Max(0, math32.Min(ax2, bx2)-math32.Max(ax1, bx1))
	interH := math32.Max(0, math32.Min(ay2, by2)-math32.Max(ay1, by1))
	interArea := interW * interH

	unionArea := a.Area() + b.Area() - interArea
	if unionArea <= 0 {
		return 0
	}

	return interArea / unionArea
}
