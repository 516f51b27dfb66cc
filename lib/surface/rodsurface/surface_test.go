package rodsurface_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/surface/internal/fixture"
	"github.com/go-rod/fullpage/lib/surface/rodsurface"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *rod.Browser {
	t.Helper()

	b := rod.New().ControlURL(fixture.Browser(t))
	require.NoError(t, b.Connect())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestCapture(t *testing.T) {
	b := connect(t)
	u := fixture.Serve(t)

	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	require.NoError(t, err)

	require.NoError(t, page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: fixture.Width, Height: fixture.Viewport, DeviceScaleFactor: 1,
	}))
	require.NoError(t, page.Navigate(u))
	require.NoError(t, page.WaitLoad())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s := rodsurface.New(page)
	assert.Equal(t, page, s.Page())
	require.NoError(t, s.ScrollTo(ctx, 0, 400))
	require.NoError(t, s.ScrollBy(ctx, 0, 100))

	// the page scrolls smoothly, the position must be final once the call returns
	offset, err := s.ScrollOffset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500, offset)

	img, err := stitch.Capture(ctx, s, nil)
	require.NoError(t, err)
	assert.Equal(t, fixture.Width, img.Bounds().Dx())
	assert.Equal(t, fixture.Height, img.Bounds().Dy())

	offset, err = s.ScrollOffset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500, offset)

	img, err = stitch.Capture(ctx, s.Format("jpg"), &stitch.Options{Format: "jpg"})
	require.NoError(t, err)
	assert.Equal(t, fixture.Height, img.Bounds().Dy())
}

func TestStealth(t *testing.T) {
	b := connect(t)

	s, err := rodsurface.NewStealth(b)
	require.NoError(t, err)

	res, err := s.Page().Eval(`() => navigator.webdriver`)
	require.NoError(t, err)
	assert.False(t, res.Value.Bool())
}
