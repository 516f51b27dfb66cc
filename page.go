package fullpage

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/go-rod/fullpage/lib/cdp"
	"github.com/go-rod/fullpage/lib/defaults"
	"github.com/go-rod/fullpage/lib/devices"
	"github.com/go-rod/fullpage/lib/js"
	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/tidwall/gjson"
)

var _ stitch.Surface = &Page{}

// Page represents the webpage
type Page struct {
	scope

	browser *Browser
	format  utils.ImgFormat // format of the viewport captures

	TargetID  string
	SessionID string
}

// Browser of the page
func (p *Page) Browser() *Browser {
	return p.browser
}

// Call raw cdp interface directly under the session of the page
func (p *Page) Call(ctx context.Context, method string, params interface{}) ([]byte, error) {
	return p.browser.Call(ctx, p.SessionID, method, params)
}

func (p *Page) callCtx(ctx context.Context, method string, params interface{}) (gjson.Result, error) {
	res, err := p.Call(ctx, method, params)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(res), nil
}

func (p *Page) call(method string, params interface{}) (gjson.Result, error) {
	return p.callCtx(p.ctx, method, params)
}

// Navigate to url
func (p *Page) Navigate(url string) error {
	if url == "" {
		url = "about:blank"
	}

	res, err := p.call("Page.navigate", map[string]interface{}{"url": url})
	if err != nil {
		return err
	}

	if text := res.Get("errorText").String(); text != "" {
		return &Error{Code: ErrNavigation, Details: text}
	}
	return nil
}

// WaitLoad waits until the `window.onload` event of the current document
func (p *Page) WaitLoad() error {
	_, err := p.Eval(js.WaitLoad.Definition)
	return err
}

// WaitEvent for the next event of the page that has the method name, the subscription
// starts immediately, call the returned function to wait.
func (p *Page) WaitEvent(method string) (wait func() error) {
	w := p.browser.Context(p.ctx).WaitEvent(func(e *cdp.Event) bool {
		return e.SessionID == p.SessionID && e.Method == method
	})
	return func() error {
		_, err := w()
		return err
	}
}

// WaitNavigation runs the action and waits until it causes a new document to be loaded,
// such as clicking a link or submitting a form.
func (p *Page) WaitNavigation(action func() error) error {
	ctx, cancel := context.WithCancel(p.ctx)
	defer cancel()

	wait := p.Context(ctx).WaitEvent("Page.loadEventFired")

	err := action()
	if err != nil {
		return err
	}

	return wait()
}

// Reload page and wait for the load event
func (p *Page) Reload() error {
	ctx, cancel := context.WithCancel(p.ctx)
	defer cancel()

	wait := p.Context(ctx).WaitEvent("Page.loadEventFired")

	_, err := p.call("Page.reload", nil)
	if err != nil {
		return err
	}

	return wait()
}

// SetWindowSize of the browser window that holds the page
func (p *Page) SetWindowSize(width, height int) error {
	win, err := p.browser.call("Browser.getWindowForTarget", map[string]interface{}{
		"targetId": p.TargetID,
	})
	if err != nil {
		return err
	}

	_, err = p.browser.call("Browser.setWindowBounds", map[string]interface{}{
		"windowId": win.Get("windowId").Int(),
		"bounds": map[string]interface{}{
			"width":       width,
			"height":      height,
			"windowState": "normal",
		},
	})
	return err
}

// SetViewport overrides the size of the visible area and the device scale factor,
// set scale to 0 to keep the scale of the device.
func (p *Page) SetViewport(width, height int, scale float64) error {
	_, err := p.call("Emulation.setDeviceMetricsOverride", map[string]interface{}{
		"width":             width,
		"height":            height,
		"deviceScaleFactor": scale,
		"mobile":            false,
	})
	return err
}

// Emulate the device, emulating devices.Clear restores the real screen.
// The device scale factor changes the pixel size of the captures, the stitch works on pixels so the
// composite is scale times the css size of the page.
func (p *Page) Emulate(device devices.Device, landscape bool) error {
	if device.IsClear() {
		for _, method := range []string{"Emulation.clearDeviceMetricsOverride", "Emulation.setTouchEmulationEnabled"} {
			_, err := p.call(method, map[string]interface{}{"enabled": false})
			if err != nil {
				return err
			}
		}
		return nil
	}

	screen := device.Screen(landscape)
	_, err := p.call("Emulation.setDeviceMetricsOverride", map[string]interface{}{
		"width":             screen.Width,
		"height":            screen.Height,
		"deviceScaleFactor": device.Scale,
		"mobile":            device.Mobile,
		"screenOrientation": map[string]interface{}{
			"angle": screen.Angle,
			"type":  screen.Type,
		},
	})
	if err != nil {
		return err
	}

	_, err = p.call("Emulation.setTouchEmulationEnabled", map[string]interface{}{"enabled": device.Touch})
	if err != nil {
		return err
	}

	if device.UserAgent == "" {
		return nil
	}
	_, err = p.call("Emulation.setUserAgentOverride", map[string]interface{}{"userAgent": device.UserAgent})
	return err
}

// Eval js function on the page, args are passed to the function as json values.
// The returned promise will be awaited. Example:
//
//	page.Eval(`(a, b) => a + b`, 1, 2)
func (p *Page) Eval(js string, args ...interface{}) (gjson.Result, error) {
	return p.evalCtx(p.ctx, js, args...)
}

func (p *Page) evalCtx(ctx context.Context, js string, args ...interface{}) (gjson.Result, error) {
	res, err := p.callCtx(ctx, "Runtime.evaluate", map[string]interface{}{
		"expression":    sprintFnApply(js, args),
		"awaitPromise":  true,
		"returnByValue": true,
	})
	if err != nil {
		return gjson.Result{}, err
	}

	if res.Get("exceptionDetails").Exists() {
		return gjson.Result{}, &Error{Code: ErrEval, Details: exceptionText(res)}
	}

	return res.Get("result.value"), nil
}

// evalElement runs the js and returns the element it returns
func (p *Page) evalElement(js string, args ...interface{}) (*Element, error) {
	res, err := p.call("Runtime.evaluate", map[string]interface{}{
		"expression":   sprintFnApply(js, args),
		"awaitPromise": true,
	})
	if err != nil {
		return nil, err
	}

	if res.Get("exceptionDetails").Exists() {
		return nil, &Error{Code: ErrEval, Details: exceptionText(res)}
	}

	obj := res.Get("result")
	if obj.Get("subtype").String() == "null" || obj.Get("type").String() == "undefined" {
		return nil, nil
	}

	if obj.Get("subtype").String() != "node" {
		return nil, &Error{Code: ErrExpectElement, Details: obj.Get("description").String()}
	}

	return &Element{
		scope:    newScope(p.ctx),
		page:     p,
		ObjectID: obj.Get("objectId").String(),
	}, nil
}

// ElementByJS retries the js until it returns an element or the page context is done
func (p *Page) ElementByJS(js string, args ...interface{}) (*Element, error) {
	var el *Element

	err := utils.Retry(p.ctx, p.sleeper(), func() (bool, error) {
		var err error
		el, err = p.evalElement(js, args...)
		if err != nil {
			return true, err
		}
		return el != nil, nil
	})
	if err != nil {
		if IsError(err, ErrEval) || IsError(err, ErrExpectElement) {
			return nil, err
		}
		return nil, &Error{Err: err, Code: ErrElementNotFound, Details: fmt.Sprintf("%s %v", js, args)}
	}

	return el, nil
}

// Element retries until an element in the page that matches the css selector is found
func (p *Page) Element(selector string) (*Element, error) {
	return p.ElementByJS(js.Element.Definition, selector)
}

// ElementByText retries until an element that matches the css selector and its text matches the regex
func (p *Page) ElementByText(selector, regex string) (*Element, error) {
	return p.ElementByJS(js.ElementByText.Definition, selector, regex)
}

// Has an element that matches the css selector, it doesn't retry
func (p *Page) Has(selector string) (bool, error) {
	el, err := p.evalElement(js.Element.Definition, selector)
	return el != nil, err
}

// HTML of the page
func (p *Page) HTML() (string, error) {
	res, err := p.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// Screenshot of the visible area of the page as png
func (p *Page) Screenshot() ([]byte, error) {
	return p.screenshot(p.ctx, utils.ImgFormatPNG)
}

func (p *Page) screenshot(ctx context.Context, format utils.ImgFormat) ([]byte, error) {
	res, err := p.callCtx(ctx, "Page.captureScreenshot", map[string]interface{}{
		"format": format.Normalize(),
	})
	if err != nil {
		return nil, err
	}

	bin, err := base64.StdEncoding.DecodeString(res.Get("data").String())
	if err != nil {
		return nil, &Error{Err: err, Code: ErrScreenshot}
	}
	if len(bin) == 0 {
		return nil, &Error{Code: ErrScreenshot, Details: "empty data"}
	}
	return bin, nil
}

// ScreenshotFullPage scrolls the page one viewport at a time and stitches the captures into one image.
// The scroll position of the page is restored after the capture.
func (p *Page) ScreenshotFullPage(opts *stitch.Options) (*image.RGBA, error) {
	s, o := p.stitchOptions(opts)
	return stitch.Capture(p.ctx, s, o)
}

// ScreenshotFullPageToFile is similar to ScreenshotFullPage, it saves the image as png.
// If the path is empty, a file with a unique name under defaults.Dir will be used.
// It returns the path of the file.
func (p *Page) ScreenshotFullPageToFile(path string, opts *stitch.Options) (string, error) {
	if path == "" {
		path = filepath.Join(defaults.Dir, fmt.Sprintf("%d.png", time.Now().UnixNano()))
	}
	s, o := p.stitchOptions(opts)
	return path, stitch.CaptureToFile(p.ctx, s, path, o)
}

// stitchOptions fills the defaults, the returned page captures in the format of the options
func (p *Page) stitchOptions(opts *stitch.Options) (*Page, *stitch.Options) {
	o := stitch.Options{}
	if opts != nil {
		o = *opts
	}
	if o.Format == "" {
		o.Format = p.captureFormat()
	}
	if o.Logger == nil {
		o.Logger = p.browser.logger
	}

	o.Format = o.Format.Normalize()

	s := *p
	s.format = o.Format
	return &s, &o
}

func (p *Page) captureFormat() utils.ImgFormat {
	if p.format == "" {
		return defaults.Format
	}
	return p.format
}

// ViewportHeight of the window
func (p *Page) ViewportHeight(ctx context.Context) (int, error) {
	res, err := p.evalCtx(ctx, js.ViewportHeight.Definition)
	return int(res.Int()), err
}

// ScrollHeight of the document body
func (p *Page) ScrollHeight(ctx context.Context) (int, error) {
	res, err := p.evalCtx(ctx, js.ScrollHeight.Definition)
	return int(res.Int()), err
}

// ScrollOffset of the window
func (p *Page) ScrollOffset(ctx context.Context) (int, error) {
	res, err := p.evalCtx(ctx, js.ScrollOffset.Definition)
	return int(res.Int()), err
}

// ScrollTo the position of the document
func (p *Page) ScrollTo(ctx context.Context, x, y int) error {
	_, err := p.evalCtx(ctx, js.ScrollTo.Definition, x, y)
	if err != nil {
		return err
	}
	return p.browser.slow(ctx)
}

// ScrollBy the distance
func (p *Page) ScrollBy(ctx context.Context, dx, dy int) error {
	_, err := p.evalCtx(ctx, js.ScrollBy.Definition, dx, dy)
	if err != nil {
		return err
	}
	return p.browser.slow(ctx)
}

// CaptureViewport in the format of defaults.Format, ScreenshotFullPage overrides it with stitch.Options.Format
func (p *Page) CaptureViewport(ctx context.Context) ([]byte, error) {
	return p.screenshot(ctx, p.captureFormat())
}

// Close the page
func (p *Page) Close() error {
	_, err := p.browser.call("Target.closeTarget", map[string]interface{}{"targetId": p.TargetID})
	return err
}

func (p *Page) sleeper() utils.Sleeper {
	return utils.BackoffSleeper(100*time.Millisecond, time.Second, nil)
}
