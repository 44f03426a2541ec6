// Package render draws overlay boxes onto OpenCV frames.
package render

import (
	"image"
	"image/color"

	"github.com/nvr-ai/go-overlay/overlay"
	"gocv.io/x/gocv"
)

// Style controls how boxes and captions are drawn.
type Style struct {
	// Colors are cycled per box.
	Colors []color.RGBA
	// LineThickness is the box outline thickness in pixels.
	LineThickness int
	// Font is the caption font face.
	Font gocv.HersheyFont
	// FontScale is the caption scale factor.
	FontScale float64
	// FontThickness is the caption stroke thickness.
	FontThickness int
	// TextColor is the caption color drawn over the filled label box.
	TextColor color.RGBA
	// Pad is the padding around the caption inside its label box.
	Pad int
}

// DefaultStyle returns a readable style for 720p-1080p frames.
func DefaultStyle() Style {
	return Style{
		Colors: []color.RGBA{
			{R: 255, G: 56, B: 56, A: 255},
			{R: 255, G: 157, B: 151, A: 255},
			{R: 255, G: 112, B: 31, A: 255},
			{R: 255, G: 178, B: 29, A: 255},
			{R: 72, G: 249, B: 10, A: 255},
			{R: 0, G: 194, B: 255, A: 255},
		},
		LineThickness: 2,
		Font:          gocv.FontHersheySimplex,
		FontScale:     0.5,
		FontThickness: 1,
		TextColor:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Pad:           3,
	}
}

// Boxes draws every box with its caption directly above it. Captions are
// drawn after all outlines so they stay on top.
//
// Arguments:
//   - img: The frame to draw on, sized like the rendering surface.
//   - boxes: The screen boxes of one frame.
//   - style: The drawing style.
func Boxes(img *gocv.Mat, boxes []overlay.ScreenBox, style Style) {
	if len(style.Colors) == 0 {
		style.Colors = DefaultStyle().Colors
	}

	for i, box := range boxes {
		gocv.Rectangle(img, box.Bounds(), style.Colors[i%len(style.Colors)], style.LineThickness)
	}

	for i, box := range boxes {
		text := box.Caption()
		size := gocv.GetTextSize(text, style.Font, style.FontScale, style.FontThickness)
		anchor := box.LabelPoint()

		background := image.Rect(
			anchor.X,
			anchor.Y-size.Y-2*style.Pad,
			anchor.X+size.X+2*style.Pad,
			anchor.Y,
		)
		gocv.Rectangle(img, background, style.Colors[i%len(style.Colors)], -1)
		gocv.PutText(img, text, image.Pt(anchor.X+style.Pad, anchor.Y-style.Pad),
			style.Font, style.FontScale, style.TextColor, style.FontThickness)
	}
}
