package images

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Axis identifies one of the two image axes.
type Axis int

const (
	// AxisX is the horizontal axis.
	AxisX Axis = iota
	// AxisY is the vertical axis.
	AxisY
)

// String returns the axis name.
func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Letterbox describes how a sensor frame was fitted into the square model
// space: scaled to fill one axis exactly and centered on the other.
type Letterbox struct {
	// Side is the model space side length.
	Side float32
	// PaddedAxis is the axis that received padding.
	PaddedAxis Axis
	// Content is the extent of the image content on the padded axis.
	Content float32
	// Offset is the padding before the content on the padded axis.
	Offset float32
}

// NewLetterbox derives the letterbox geometry for a sensor frame.
//
// A sensor at least as wide as it is tall fills the width and is padded on Y;
// a portrait sensor fills the height and is padded on X. A square sensor is
// reported as padded on Y with zero offset.
//
// Arguments:
//   - sensorAspect: The sensor width divided by its height.
//   - side: The model space side length.
//
// Returns:
//   - Letterbox: The letterbox geometry.
//   - error: If either argument is not a positive finite number.
//
// @example
// lb, _ := NewLetterbox(2.0, 640) // Content: 320, Offset: 160 on AxisY
func NewLetterbox(sensorAspect, side float32) (Letterbox, error) {
	if !PositiveFinite(sensorAspect) {
		return Letterbox{}, errors.Errorf("invalid sensor aspect ratio: %v", sensorAspect)
	}
	if !PositiveFinite(side) {
		return Letterbox{}, errors.Errorf("invalid model side: %v", side)
	}

	lb := Letterbox{Side: side}
	if sensorAspect >= 1 {
		lb.PaddedAxis = AxisY
		lb.Content = side / sensorAspect
	} else {
		lb.PaddedAxis = AxisX
		lb.Content = side * sensorAspect
	}
	lb.Offset = (side - lb.Content) / 2

	return lb, nil
}

// Normalize removes the letterbox padding from a model space box and scales
// it to sensor-relative [0,1] coordinates. Values outside the content area
// fall outside [0,1] and are returned unclamped.
func (l Letterbox) Normalize(b Box) Box {
	if l.PaddedAxis == AxisX {
		return Box{
			X:      (b.X - l.Offset) / l.Content,
			Y:      b.Y / l.Side,
			Width:  b.Width / l.Content,
			Height: b.Height / l.Side,
		}
	}
	return Box{
		X:      b.X / l.Side,
		Y:      (b.Y - l.Offset) / l.Content,
		Width:  b.Width / l.Side,
		Height: b.Height / l.Content,
	}
}

// PositiveFinite reports whether v is a positive, finite number.
func PositiveFinite(v float32) bool {
	return v > 0 && !math32.IsInf(v, 0) && !math32.IsNaN(v)
}
