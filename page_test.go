package fullpage

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/fullpage/lib/cdp"
	"github.com/go-rod/fullpage/lib/defaults"
	"github.com/go-rod/fullpage/lib/devices"
	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/utils"
)

func (s *S) TestPage() {
	s.Equal("t1", s.page.TargetID)
	s.Equal("s1", s.page.SessionID)
	s.Equal(s.tab.browser, s.page.Browser())
	s.Equal("about:blank", s.tab.lastParams("Target.createTarget").Get("url").String())
	s.True(s.tab.lastParams("Target.attachToTarget").Get("flatten").Bool())
	s.Equal(1, s.tab.count("Page.enable"))
}

func (s *S) TestNotConnected() {
	_, err := New().Page("")
	s.EqualError(err, "[fullpage] browser is not connected")
}

func (s *S) TestNavigate() {
	s.page.MustNavigate("http://example.com")
	s.Equal("http://example.com", s.tab.lastParams("Page.navigate").Get("url").String())

	s.NoError(s.page.Navigate(""))
	s.Equal("about:blank", s.tab.lastParams("Page.navigate").Get("url").String())

	err := s.page.Navigate("http://not-exists")
	s.True(IsError(err, ErrNavigation))
	s.Contains(err.Error(), "ERR_NAME_NOT_RESOLVED")
}

func (s *S) TestEval() {
	s.Equal(100, int(s.page.MustEval(`() => window.innerHeight`).Int()))

	_, err := s.page.Eval(`() => { throw new Error('boom') }`)
	s.True(IsError(err, ErrEval))
	s.EqualError(err, "[fullpage] eval js error: Error: boom")

	s.Equal("<html><body></body></html>", s.page.MustHTML())
	s.NoError(s.page.WaitLoad())
}

func (s *S) TestScreenshotFullPage() {
	s.tab.y = 30

	img := s.page.MustScreenshotFullPage()

	s.Equal(20, img.Bounds().Dx())
	s.Equal(250, img.Bounds().Dy())
	for y := 0; y < 250; y++ {
		s.Equal(rowColor(y), img.RGBAAt(5, y), "row %d", y)
	}

	// viewport is 100, the captures are at 0, 100 and the clamped bottom 150
	s.Equal(3, s.tab.count("Page.captureScreenshot"))
	s.Equal(30, s.tab.y)

	restore := s.tab.lastParams("Runtime.evaluate")
	s.True(restore.Get("awaitPromise").Bool())
	s.Contains(restore.Get("expression").String(), "behavior: 'instant'")
}

func (s *S) TestScreenshotFullPageToFile() {
	p := filepath.Join(s.T().TempDir(), "full.png")
	s.Equal(p, s.page.MustScreenshotFullPageToFile(p))

	f, err := os.Open(p)
	s.Require().NoError(err)
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	s.Require().NoError(err)
	s.Equal(250, img.Bounds().Dy())
}

func (s *S) TestScreenshotFullPageDefaultPath() {
	defaults.Dir = s.T().TempDir()
	defer defaults.ResetWithEnv()

	p, err := s.page.ScreenshotFullPageToFile("", nil)
	s.Require().NoError(err)
	s.Equal(defaults.Dir, filepath.Dir(p))
	s.FileExists(p)
}

func (s *S) TestScreenshotFullPageJPEG() {
	img, err := s.page.ScreenshotFullPage(&stitch.Options{Format: utils.ImgFormatJPEG})
	s.Require().NoError(err)
	s.Equal(250, img.Bounds().Dy())
	s.Equal("jpeg", s.tab.lastParams("Page.captureScreenshot").Get("format").String())

	// the page itself still captures in the default format
	s.Equal(defaults.Format, s.page.captureFormat())

	_, err = s.page.ScreenshotFullPage(&stitch.Options{Format: "jpg"})
	s.Require().NoError(err)
	s.Equal("jpeg", s.tab.lastParams("Page.captureScreenshot").Get("format").String())
}

func (s *S) TestScreenshotFullPageFailure() {
	s.tab.y = 42
	s.tab.failOn = "Page.captureScreenshot"
	s.tab.failAt = 2

	dir := s.T().TempDir()
	p := filepath.Join(dir, "full.png")
	_, err := s.page.ScreenshotFullPageToFile(p, &stitch.Options{Dir: dir})

	s.True(errors.Is(err, stitch.ErrCapture))
	var e *stitch.Error
	s.Require().True(errors.As(err, &e))
	s.Equal(1, e.Index)
	s.NoFileExists(p)
	s.Equal(42, s.tab.y)

	list, _ := os.ReadDir(dir)
	s.Len(list, 0)
}

func (s *S) TestScreenshotFullPageTimeout() {
	s.page.browser.Slowmotion(50 * time.Millisecond)
	defer s.page.browser.Slowmotion(0)

	page := s.page.Timeout(10 * time.Millisecond)
	defer page.CancelTimeout()

	_, err := page.ScreenshotFullPage(nil)
	s.True(errors.Is(err, stitch.ErrCapture))
	s.True(errors.Is(err, context.DeadlineExceeded))
}

func (s *S) TestScreenshot() {
	bin := s.page.MustScreenshot()
	img, err := png.Decode(bytes.NewReader(bin))
	s.Require().NoError(err)
	s.Equal(100, img.Bounds().Dy())

	p := filepath.Join(s.T().TempDir(), "a.png")
	s.page.MustScreenshot(p)
	s.FileExists(p)

	s.tab.failOn = "Page.captureScreenshot"
	s.tab.failAt = 3
	_, err = s.page.Screenshot()
	s.Error(err)
}

func (s *S) TestWindowSize() {
	s.page.MustSetWindowSize(1280, 1024)
	bounds := s.tab.lastParams("Browser.setWindowBounds")
	s.Equal(3, int(bounds.Get("windowId").Int()))
	s.Equal(1280, int(bounds.Get("bounds.width").Int()))
	s.Equal(1024, int(bounds.Get("bounds.height").Int()))

	s.page.MustSetViewport(800, 600, 2)
	metrics := s.tab.lastParams("Emulation.setDeviceMetricsOverride")
	s.Equal(2.0, metrics.Get("deviceScaleFactor").Float())

	s.tab.failOn = "Browser.getWindowForTarget"
	s.tab.failAt = 2
	s.Error(s.page.SetWindowSize(1, 1))
}

func (s *S) TestEmulate() {
	s.page.MustEmulate(devices.IPhoneX, true)
	metrics := s.tab.lastParams("Emulation.setDeviceMetricsOverride")
	s.Equal(812, int(metrics.Get("width").Int()))
	s.Equal(375, int(metrics.Get("height").Int()))
	s.Equal(3.0, metrics.Get("deviceScaleFactor").Float())
	s.True(metrics.Get("mobile").Bool())
	s.Equal(90, int(metrics.Get("screenOrientation.angle").Int()))
	s.True(s.tab.lastParams("Emulation.setTouchEmulationEnabled").Get("enabled").Bool())
	s.Contains(s.tab.lastParams("Emulation.setUserAgentOverride").Get("userAgent").String(), "iPhone")

	s.page.MustEmulate(devices.LaptopWithMDPIScreen, false)
	s.Equal(1, s.tab.count("Emulation.setUserAgentOverride"))
	s.False(s.tab.lastParams("Emulation.setTouchEmulationEnabled").Get("enabled").Bool())

	s.page.MustEmulate(devices.Clear, false)
	s.Equal(1, s.tab.count("Emulation.clearDeviceMetricsOverride"))

	s.tab.failOn = "Emulation.setTouchEmulationEnabled"
	s.tab.failAt = 4
	s.Error(s.page.Emulate(devices.IPad, false))
}

func (s *S) TestContext() {
	p := s.page.Timeout(time.Hour)
	s.NotSame(s.page, p)
	s.Same(p, p.Context(p.ctx))

	p.CancelTimeout()
	s.Equal(context.Canceled, p.ctx.Err())
	s.NoError(s.page.ctx.Err())

	c := s.page.Context(context.TODO()).Cancel()
	s.Equal(context.Canceled, c.ctx.Err())
	s.NoError(s.page.ctx.Err())

	b := s.tab.browser.Timeout(time.Hour)
	s.NoError(b.ctx.Err())
	b.CancelTimeout()
	s.Error(b.ctx.Err())
}

func (s *S) TestReload() {
	s.page.Timeout(time.Second).MustReload()
	s.Equal(1, s.tab.count("Page.reload"))
}

func (s *S) TestWaitNavigation() {
	page := s.page.Timeout(time.Second)
	defer page.CancelTimeout()

	page.MustWaitNavigation(func() {
		// events of other tabs are ignored
		s.tab.browser.event.Publish(&cdp.Event{SessionID: "s2", Method: "Page.loadEventFired"})
		s.tab.browser.event.Publish(&cdp.Event{SessionID: "s1", Method: "Page.frameNavigated"})
		s.tab.browser.event.Publish(&cdp.Event{SessionID: "s1", Method: "Page.loadEventFired"})
	})

	err := s.page.WaitNavigation(func() error { return errors.New("click failed") })
	s.EqualError(err, "click failed")

	short := s.page.Timeout(10 * time.Millisecond)
	defer short.CancelTimeout()
	s.Equal(context.DeadlineExceeded, short.WaitNavigation(func() error { return nil }))
}

func (s *S) TestBrowserEvent() {
	ctx, cancel := context.WithCancel(context.Background())
	b := s.tab.browser.Context(ctx)

	events := b.Event()
	wait := b.WaitEvent(Method("Target.targetCreated"))

	b.event.Publish(&cdp.Event{Method: "Target.targetCreated"})

	e := <-events
	s.Equal("Target.targetCreated", e.Method)

	e, err := wait()
	s.Require().NoError(err)
	s.Equal("Target.targetCreated", e.Method)

	cancel()
	for range events {
	}
}

func (s *S) TestClose() {
	s.page.MustClose()
	s.Equal("t1", s.tab.lastParams("Target.closeTarget").Get("targetId").String())

	s.tab.browser.MustClose()
	s.Equal(1, s.tab.count("Browser.close"))
}
