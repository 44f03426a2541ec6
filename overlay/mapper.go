package overlay

import (
	"github.com/nvr-ai/go-overlay/images"
	"github.com/nvr-ai/go-overlay/models/postprocess"
	"github.com/pkg/errors"
)

// SizeCorrection scales the final box extents on screen. The defaults were
// tuned against the existing visual calibration.
type SizeCorrection struct {
	Width  float32 `json:"width" yaml:"width"`
	Height float32 `json:"height" yaml:"height"`
}

// DefaultSizeCorrection returns the calibrated multipliers (width 1.1, height 1.25).
func DefaultSizeCorrection() SizeCorrection {
	return SizeCorrection{Width: 1.1, Height: 1.25}
}

// Validate checks that both multipliers are positive and finite.
func (c SizeCorrection) Validate() error {
	if !images.PositiveFinite(c.Width) || !images.PositiveFinite(c.Height) {
		return errors.Errorf("size correction must be positive, got %vx%v", c.Width, c.Height)
	}
	return nil
}

// ScreenBox is a detection placed on the rendering surface.
type ScreenBox struct {
	// Rect is the box in screen space.
	Rect images.Rect
	// Anchor is where the label is drawn, directly above the box.
	Anchor images.Point
	// Label is the class name of the detection.
	Label string
	// Confidence is the detection confidence.
	Confidence float32
}

// Mapper transforms model space detections into screen rectangles.
type Mapper struct {
	policy     OrientationPolicy
	correction SizeCorrection
}

// NewMapper creates a coordinate mapper.
//
// Arguments:
//   - policy: The sensor orientation policy.
//   - correction: The extent multipliers applied on screen.
//
// Returns:
//   - *Mapper: The mapper.
//   - error: If the policy is unknown or a multiplier is not positive.
//
// @example
// mapper, err := NewMapper(PolicyRotateMirror, DefaultSizeCorrection())
func NewMapper(policy OrientationPolicy, correction SizeCorrection) (*Mapper, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if err := correction.Validate(); err != nil {
		return nil, err
	}
	return &Mapper{policy: policy, correction: correction}, nil
}

// Policy returns the orientation policy of the mapper.
func (m *Mapper) Policy() OrientationPolicy {
	return m.policy
}

// Map places one detection on screen.
//
// The box is un-letterboxed into sensor-normalized coordinates, oriented per
// the policy, scaled into the fitted preview and finally resized around its
// center by the size correction. Coordinates are never clamped, so boxes
// partly outside the content area stay partly off-screen.
//
// Arguments:
//   - d: The detection in model space.
//   - lb: The letterbox geometry of the frame.
//   - fit: The preview placement on the surface.
//
// Returns:
//   - ScreenBox: The screen rectangle, label anchor, label and confidence.
func (m *Mapper) Map(d postprocess.Detection, lb images.Letterbox, fit images.PreviewFit) ScreenBox {
	placed := fit.Place(m.policy.Orient(lb.Normalize(d.Box)))

	width := placed.Width * m.correction.Width
	height := placed.Height * m.correction.Height
	rect := images.Rect{
		Left:   placed.X - width/2,
		Top:    placed.Y - height/2,
		Width:  width,
		Height: height,
	}

	return ScreenBox{
		Rect:       rect,
		Anchor:     images.Point{X: rect.Left, Y: rect.Top},
		Label:      d.ClassName,
		Confidence: d.Confidence,
	}
}

// MapAll places every detection, preserving order.
func (m *Mapper) MapAll(detections []postprocess.Detection, lb images.Letterbox,
	fit images.PreviewFit,
) []ScreenBox {
	boxes := make([]ScreenBox, 0, len(detections))
	for _, d := range detections {
		boxes = append(boxes, m.Map(d, lb, fit))
	}
	return boxes
}
