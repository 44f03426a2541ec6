package images

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// AspectRatio represents an aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Common camera sensor aspect ratios.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio54  AspectRatio = "5:4"
	AspectRatio32  AspectRatio = "3:2"
	AspectRatio11  AspectRatio = "1:1"
)

// Value parses the ratio into width divided by height.
//
// Returns:
//   - float32: The ratio value, e.g. 1.777 for "16:9".
//   - error: If the ratio is not of the form "W:H" with positive terms.
func (a AspectRatio) Value() (float32, error) {
	w, h, ok := strings.Cut(string(a), ":")
	if !ok {
		return 0, errors.Errorf("malformed aspect ratio %q", a)
	}
	fw, err := strconv.ParseFloat(strings.TrimSpace(w), 32)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed aspect ratio %q", a)
	}
	fh, err := strconv.ParseFloat(strings.TrimSpace(h), 32)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed aspect ratio %q", a)
	}
	if fw <= 0 || fh <= 0 {
		return 0, errors.Errorf("aspect ratio %q must have positive terms", a)
	}
	return float32(fw / fh), nil
}

// ResolutionType is a common name for a camera stream resolution.
type ResolutionType string

// Resolutions commonly delivered by mobile and CCTV camera streams.
const (
	ResolutionTypeVGA      ResolutionType = "VGA"
	ResolutionTypeHD720p   ResolutionType = "HD 720p"
	ResolutionType1MP54    ResolutionType = "1MP (5:4)"
	ResolutionTypeFHD1080p ResolutionType = "Full HD 1080p"
	ResolutionType2MP43    ResolutionType = "2MP (4:3)"
	ResolutionType6MP32    ResolutionType = "6MP (3:2)"
	ResolutionType4KUHD    ResolutionType = "4K UHD"
	ResolutionType12MP     ResolutionType = "12MP (4:3)"
)

// Resolution describes a stream resolution in landscape orientation.
type Resolution struct {
	Name        ResolutionType `json:"name"`
	AspectRatio AspectRatio    `json:"aspectRatio"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
}

// Aspect returns the pixel aspect ratio, width divided by height.
func (r Resolution) Aspect() float32 {
	return float32(r.Width) / float32(r.Height)
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %s)", r.Name, r.Width, r.Height, r.AspectRatio)
}

var resolutions = map[ResolutionType]Resolution{
	ResolutionTypeVGA:      {Name: ResolutionTypeVGA, AspectRatio: AspectRatio43, Width: 640, Height: 480},
	ResolutionTypeHD720p:   {Name: ResolutionTypeHD720p, AspectRatio: AspectRatio169, Width: 1280, Height: 720},
	ResolutionType1MP54:    {Name: ResolutionType1MP54, AspectRatio: AspectRatio54, Width: 1280, Height: 1024},
	ResolutionTypeFHD1080p: {Name: ResolutionTypeFHD1080p, AspectRatio: AspectRatio169, Width: 1920, Height: 1080},
	ResolutionType2MP43:    {Name: ResolutionType2MP43, AspectRatio: AspectRatio43, Width: 1600, Height: 1200},
	ResolutionType6MP32:    {Name: ResolutionType6MP32, AspectRatio: AspectRatio32, Width: 3072, Height: 2048},
	ResolutionType4KUHD:    {Name: ResolutionType4KUHD, AspectRatio: AspectRatio169, Width: 3840, Height: 2160},
	ResolutionType12MP:     {Name: ResolutionType12MP, AspectRatio: AspectRatio43, Width: 4000, Height: 3000},
}

// GetResolutionByType retrieves a specific resolution by its type.
// It returns the Resolution and true if found, otherwise an empty Resolution and false.
func GetResolutionByType(t ResolutionType) (Resolution, bool) {
	res, ok := resolutions[t]
	return res, ok
}

// AspectOf returns the landscape aspect ratio of a named resolution.
//
// Arguments:
//   - t: The resolution type.
//
// Returns:
//   - float32: Width divided by height.
//   - error: If the resolution type is unknown.
func AspectOf(t ResolutionType) (float32, error) {
	res, ok := resolutions[t]
	if !ok {
		return 0, errors.Errorf("unknown resolution %q", t)
	}
	return res.Aspect(), nil
}
