// Package postprocess - Decoding and suppression of raw detector output.
package postprocess

import (
	"fmt"

	"github.com/nvr-ai/go-overlay/images"
)

// Detection represents a single recognized object instance in model space.
type Detection struct {
	// The center-form bounding box of the detection.
	Box images.Box
	// The winning class score of the detection.
	Confidence float32
	// The predicted class index into the configured labels.
	ClassID int
	// The label for ClassID.
	ClassName string
}

func (d Detection) String() string {
	return fmt.Sprintf("%s (confidence %f): center (%f, %f), size %fx%f",
		d.ClassName, d.Confidence, d.Box.X, d.Box.Y, d.Box.Width, d.Box.Height)
}
