// Package rodsurface lets a go-rod/rod page be captured by the stitch package.
package rodsurface

import (
	"context"

	"github.com/go-rod/fullpage/lib/js"
	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

var _ stitch.Surface = &Surface{}

// Surface over a rod page
type Surface struct {
	page   *rod.Page
	format utils.ImgFormat
}

// New surface for the page
func New(page *rod.Page) *Surface {
	return &Surface{page: page, format: utils.ImgFormatPNG}
}

// NewStealth opens a page that hides the automation fingerprints, for sites that
// render differently for headless browsers.
func NewStealth(b *rod.Browser) (*Surface, error) {
	page, err := stealth.Page(b)
	if err != nil {
		return nil, err
	}
	return New(page), nil
}

// Page of the surface
func (s *Surface) Page() *rod.Page {
	return s.page
}

// Format of the viewport captures, it must match stitch.Options.Format
func (s *Surface) Format(f utils.ImgFormat) *Surface {
	s.format = f.Normalize()
	return s
}

func (s *Surface) evalInt(ctx context.Context, js string) (int, error) {
	res, err := s.page.Context(ctx).Eval(js)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// ViewportHeight of the window
func (s *Surface) ViewportHeight(ctx context.Context) (int, error) {
	return s.evalInt(ctx, js.ViewportHeight.Definition)
}

// ScrollHeight of the document body
func (s *Surface) ScrollHeight(ctx context.Context) (int, error) {
	return s.evalInt(ctx, js.ScrollHeight.Definition)
}

// ScrollOffset of the window
func (s *Surface) ScrollOffset(ctx context.Context) (int, error) {
	return s.evalInt(ctx, js.ScrollOffset.Definition)
}

// ScrollTo the position of the document
func (s *Surface) ScrollTo(ctx context.Context, x, y int) error {
	_, err := s.page.Context(ctx).Eval(js.ScrollTo.Definition, x, y)
	return err
}

// ScrollBy the distance
func (s *Surface) ScrollBy(ctx context.Context, dx, dy int) error {
	_, err := s.page.Context(ctx).Eval(js.ScrollBy.Definition, dx, dy)
	return err
}

// CaptureViewport of the page
func (s *Surface) CaptureViewport(ctx context.Context) ([]byte, error) {
	format := proto.PageCaptureScreenshotFormatPng
	if s.format == utils.ImgFormatJPEG {
		format = proto.PageCaptureScreenshotFormatJpeg
	}

	return s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{Format: format})
}
