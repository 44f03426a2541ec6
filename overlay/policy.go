// Package overlay maps model space detections onto a rendering surface.
package overlay

import (
	"github.com/nvr-ai/go-overlay/images"
	"github.com/pkg/errors"
)

// OrientationPolicy selects how the sensor frame is oriented relative to the
// display.
type OrientationPolicy string

const (
	// PolicyDirect maps sensor X,Y to screen X,Y unchanged. Used when the
	// sensor stream already matches the display orientation.
	PolicyDirect OrientationPolicy = "direct"
	// PolicyRotateMirror rotates the sensor frame by 90 degrees and mirrors it
	// horizontally, for streams delivered sideways relative to the display.
	PolicyRotateMirror OrientationPolicy = "rotate-mirror"
)

// ParseOrientationPolicy parses a policy name.
func ParseOrientationPolicy(s string) (OrientationPolicy, error) {
	p := OrientationPolicy(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate reports whether the policy is known.
func (p OrientationPolicy) Validate() error {
	switch p {
	case PolicyDirect, PolicyRotateMirror:
		return nil
	default:
		return errors.Errorf("unknown orientation policy %q", string(p))
	}
}

// Orient converts a sensor-normalized box into screen-normalized space.
func (p OrientationPolicy) Orient(n images.Box) images.Box {
	if p == PolicyRotateMirror {
		return images.Box{
			X:      1 - n.Y,
			Y:      n.X,
			Width:  n.Height,
			Height: n.Width,
		}
	}
	return n
}
