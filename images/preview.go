package images

import "github.com/pkg/errors"

// PreviewFit is the placement of the camera preview inside a rendering
// surface. The preview keeps the camera aspect ratio, fits entirely within the
// surface and is centered on the axis that has slack.
type PreviewFit struct {
	Width, Height    float32
	OffsetX, OffsetY float32
}

// NewPreviewFit fits a camera preview into a surface.
//
// Arguments:
//   - cameraAspect: The camera preview width divided by its height.
//   - surface: The rendering surface size.
//
// Returns:
//   - PreviewFit: The fitted preview size and centering offsets.
//   - error: If the aspect ratio or surface size is not positive.
//
// @example
// fit, _ := NewPreviewFit(16.0/9.0, Size{Width: 1080, Height: 1920})
// // fit.Width == 1080, fit.Height == 607.5, fit.OffsetY == 656.25
func NewPreviewFit(cameraAspect float32, surface Size) (PreviewFit, error) {
	if !PositiveFinite(cameraAspect) {
		return PreviewFit{}, errors.Errorf("invalid camera aspect ratio: %v", cameraAspect)
	}
	if !PositiveFinite(surface.Width) || !PositiveFinite(surface.Height) {
		return PreviewFit{}, errors.Errorf("invalid surface size: %vx%v", surface.Width, surface.Height)
	}

	surfaceAspect := surface.Width / surface.Height
	if surfaceAspect > cameraAspect {
		// Surface is wider than the camera: height limited, slack on X.
		height := surface.Height
		width := height * cameraAspect
		return PreviewFit{
			Width:   width,
			Height:  height,
			OffsetX: (surface.Width - width) / 2,
		}, nil
	}

	width := surface.Width
	height := width / cameraAspect
	return PreviewFit{
		Width:   width,
		Height:  height,
		OffsetY: (surface.Height - height) / 2,
	}, nil
}

// Place scales a normalized point and extent into the surface.
func (p PreviewFit) Place(b Box) Box {
	return Box{
		X:      b.X*p.Width + p.OffsetX,
		Y:      b.Y*p.Height + p.OffsetY,
		Width:  b.Width * p.Width,
		Height: b.Height * p.Height,
	}
}
