package stitch

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Plan of a full page capture, all the values are in css pixels
type Plan struct {
	// Viewport is the visible height of the document
	Viewport int

	// Height is the scrollable height of the document
	Height int

	// Count of the viewport captures, ceil(Height / Viewport), at least 1
	Count int

	// Crop is the number of bottom rows kept from the last capture,
	// 0 means the last capture is used as it is.
	Crop int
}

// NewPlan for a document. The viewport must be positive.
func NewPlan(viewport, height int) Plan {
	p := Plan{Viewport: viewport, Height: height}

	if height <= 0 {
		p.Count = 1
		return p
	}

	p.Count = (height + viewport - 1) / viewport

	if p.Count > 1 {
		p.Crop = height % viewport
	}

	return p
}

// Total height of the composite in css pixels
func (p Plan) Total() int {
	if p.Height <= 0 {
		return p.Viewport
	}
	return p.Height
}

// Offset of the ith capture in the composite, in css pixels
func (p Plan) Offset(i int) int {
	if i == p.Count-1 && p.Crop > 0 {
		return p.Height - p.Crop
	}
	return i * p.Viewport
}

// Compose the captures into one image. The captures must be in scroll order and have the same size.
// A capture can be taller than the Viewport when the device scale factor is not 1,
// the composite will use the same scale.
func Compose(p Plan, captures []image.Image) (*image.RGBA, error) {
	if len(captures) != p.Count {
		return nil, fmt.Errorf("[stitch] expect %d captures, got %d", p.Count, len(captures))
	}
	if p.Viewport <= 0 {
		return nil, fmt.Errorf("[stitch] invalid viewport height: %d", p.Viewport)
	}

	first := captures[0].Bounds()
	width, unit := first.Dx(), first.Dy()
	if width == 0 || unit == 0 {
		return nil, fmt.Errorf("[stitch] invalid capture size: %dx%d", width, unit)
	}

	height := p.Total() * unit / p.Viewport

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))

	for i, capture := range captures {
		src := capture.Bounds()
		if src.Dx() != width || src.Dy() != unit {
			return nil, fmt.Errorf("[stitch] capture %d size %dx%d doesn't match %dx%d",
				i, src.Dx(), src.Dy(), width, unit)
		}

		y := i * unit

		// the browser clamps the last scroll at the bottom of the document,
		// only the rows below the previous capture are new
		if i == p.Count-1 && p.Crop > 0 {
			rows := height - y
			src.Min.Y = src.Max.Y - rows
		}

		dst := image.Rect(0, y, width, y+src.Dy())
		draw.Draw(canvas, dst, capture, src.Min, draw.Src)
	}

	return canvas, nil
}
