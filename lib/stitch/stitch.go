// Package stitch captures a document taller than its viewport as one image.
//
// It scrolls the document one viewport at a time, takes a screenshot at each position, and pastes
// the screenshots top to bottom. The browser can't scroll past the bottom of the document, so the
// last screenshot usually overlaps the previous one; only its bottom rows are kept.
//
// The browser is abstracted as a Surface, any driver that can measure, scroll and take
// a viewport screenshot can be used.
package stitch

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/go-rod/fullpage/lib/utils"
)

// Surface is a scrollable document in a browser. All heights and offsets are in css pixels.
type Surface interface {
	// ViewportHeight of the visible area
	ViewportHeight(ctx context.Context) (int, error)

	// ScrollHeight of the whole document
	ScrollHeight(ctx context.Context) (int, error)

	// ScrollOffset is the current vertical scroll position
	ScrollOffset(ctx context.Context) (int, error)

	// ScrollTo the absolute position
	ScrollTo(ctx context.Context, x, y int) error

	// ScrollBy the relative distance
	ScrollBy(ctx context.Context, dx, dy int) error

	// CaptureViewport returns the encoded screenshot of the visible area
	CaptureViewport(ctx context.Context) ([]byte, error)
}

// Options for Capture
type Options struct {
	// Format of the bytes returned by Surface.CaptureViewport, default is png
	Format utils.ImgFormat

	// Dir to spool the raw captures, default is os.TempDir()
	Dir string

	// Logger for the progress
	Logger utils.Logger

	// RestoreTimeout bounds the scroll restore that runs after the caller's ctx may be done,
	// default is DefaultRestoreTimeout
	RestoreTimeout time.Duration
}

// DefaultRestoreTimeout of Options.RestoreTimeout
const DefaultRestoreTimeout = 5 * time.Second

func (o *Options) normalize() *Options {
	n := Options{}
	if o != nil {
		n = *o
	}
	if n.Dir == "" {
		n.Dir = os.TempDir()
	}
	if n.Logger == nil {
		n.Logger = utils.LoggerQuiet
	}
	if n.RestoreTimeout <= 0 {
		n.RestoreTimeout = DefaultRestoreTimeout
	}
	n.Format = n.Format.Normalize()
	return &n
}

// Capture the whole document of the surface as one image.
// The scroll position is reset to the top before measuring, and restored to the position
// it had before the call when Capture returns, no matter it succeeds or fails.
// The raw captures are spooled to temp files which are always removed before return.
// Any failed surface call aborts the capture, the returned error matches ErrCapture.
func Capture(ctx context.Context, s Surface, opts *Options) (img *image.RGBA, err error) {
	opts = opts.normalize()

	processor, err := utils.NewImgProcessor(opts.Format)
	if err != nil {
		return nil, newError("format", -1, err)
	}

	origin, err := s.ScrollOffset(ctx)
	if err != nil {
		return nil, newError("offset", -1, err)
	}

	defer func() {
		// the ctx may already be done, the document still has to be restored,
		// but a frozen browser must not block the return
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.RestoreTimeout)
		defer cancel()

		e := s.ScrollTo(rctx, 0, origin)
		if e != nil && err == nil {
			img, err = nil, newError("restore", -1, e)
		}
	}()

	err = s.ScrollTo(ctx, 0, 0)
	if err != nil {
		return nil, newError("scroll", -1, err)
	}

	viewport, err := s.ViewportHeight(ctx)
	if err != nil {
		return nil, newError("viewport", -1, err)
	}
	if viewport <= 0 {
		return nil, newError("viewport", -1, fmt.Errorf("invalid height %d", viewport))
	}

	height, err := s.ScrollHeight(ctx)
	if err != nil {
		return nil, newError("height", -1, err)
	}

	plan := NewPlan(viewport, height)
	opts.Logger.Println("[stitch] viewport:", viewport, "height:", height, "captures:", plan.Count)

	sp := newSpool(opts.Dir, opts.Format)
	defer sp.cleanup()

	for i := 0; i < plan.Count; i++ {
		if i > 0 {
			err = s.ScrollBy(ctx, 0, viewport)
			if err != nil {
				return nil, newError("scroll", i, err)
			}
		}

		bin, err := s.CaptureViewport(ctx)
		if err != nil {
			return nil, newError("capture", i, err)
		}

		err = sp.write(i, bin)
		if err != nil {
			return nil, newError("spool", i, err)
		}

		opts.Logger.Println("[stitch] captured", i+1, "/", plan.Count)
	}

	captures, err := sp.decode(processor)
	if err != nil {
		return nil, newError("decode", -1, err)
	}

	img, err = Compose(plan, captures)
	if err != nil {
		return nil, newError("compose", -1, err)
	}

	return img, nil
}

// CaptureToFile is similar to Capture, it saves the composite as png to the path.
// Nothing is written if the capture fails.
func CaptureToFile(ctx context.Context, s Surface, path string, opts *Options) error {
	img, err := Capture(ctx, s, opts)
	if err != nil {
		return err
	}

	bin, err := utils.EncodePNG(img)
	if err != nil {
		return err
	}

	return utils.OutputFile(path, bin)
}
