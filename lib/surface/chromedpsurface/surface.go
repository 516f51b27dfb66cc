// Package chromedpsurface lets a chromedp tab be captured by the stitch package.
package chromedpsurface

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/fullpage/lib/js"
	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/utils"
)

var _ stitch.Surface = &Surface{}

// Surface over a chromedp context, the context must be created by chromedp.NewContext
type Surface struct {
	ctx    context.Context
	format utils.ImgFormat
}

// New surface for the tab of the chromedp context
func New(ctx context.Context) *Surface {
	return &Surface{ctx: ctx, format: utils.ImgFormatPNG}
}

// Format of the viewport captures, it must match stitch.Options.Format
func (s *Surface) Format(f utils.ImgFormat) *Surface {
	s.format = f.Normalize()
	return s
}

// run the actions on the tab, they are canceled when either the tab or the ctx is done
func (s *Surface) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return chromedp.Run(s.ctx, chromedp.ActionFunc(func(c context.Context) error {
		c, cancel := context.WithCancel(c)
		defer cancel()

		stop := context.AfterFunc(ctx, cancel)
		defer stop()

		for _, a := range actions {
			if err := a.Do(c); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (s *Surface) evalInt(ctx context.Context, js string) (int, error) {
	var v float64
	err := s.run(ctx, chromedp.Evaluate(js, &v))
	return int(v), err
}

// ViewportHeight of the window
func (s *Surface) ViewportHeight(ctx context.Context) (int, error) {
	return s.evalInt(ctx, js.ViewportHeight.Call())
}

// ScrollHeight of the document body
func (s *Surface) ScrollHeight(ctx context.Context) (int, error) {
	return s.evalInt(ctx, js.ScrollHeight.Call())
}

// ScrollOffset of the window
func (s *Surface) ScrollOffset(ctx context.Context) (int, error) {
	return s.evalInt(ctx, js.ScrollOffset.Call())
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// ScrollTo the position of the document, it returns after the page is repainted
func (s *Surface) ScrollTo(ctx context.Context, x, y int) error {
	return s.run(ctx, chromedp.Evaluate(js.ScrollTo.Call(x, y), nil, awaitPromise))
}

// ScrollBy the distance, it returns after the page is repainted
func (s *Surface) ScrollBy(ctx context.Context, dx, dy int) error {
	return s.run(ctx, chromedp.Evaluate(js.ScrollBy.Call(dx, dy), nil, awaitPromise))
}

// CaptureViewport of the tab
func (s *Surface) CaptureViewport(ctx context.Context) ([]byte, error) {
	format := page.CaptureScreenshotFormatPng
	if s.format == utils.ImgFormatJPEG {
		format = page.CaptureScreenshotFormatJpeg
	}

	var bin []byte
	err := s.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		var err error
		bin, err = page.CaptureScreenshot().WithFormat(format).Do(c)
		return err
	}))
	return bin, err
}
