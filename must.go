// This file contains the methods that panics when error return value is not nil.
// Their function names are all prefixed with Must.
// A function here is usually a wrapper for the error version with fixed default options to make it easier to use.
//
// For example the source code of `Page.ScreenshotFullPage` and `Page.MustScreenshotFullPage`.
// `MustScreenshotFullPage` has no argument and uses the default options.

package fullpage

import (
	"image"

	"github.com/go-rod/fullpage/lib/devices"
	"github.com/go-rod/fullpage/lib/input"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/tidwall/gjson"
)

// MustConnect to the browser and start to control it.
// If fails to connect, try to launch a local browser.
func (b *Browser) MustConnect() *Browser {
	utils.E(b.Connect())
	return b
}

// MustClose the browser and release related resources
func (b *Browser) MustClose() {
	_ = b.Close()
}

// MustPage creates a new tab
// If url is empty, the default target will be "about:blank".
func (b *Browser) MustPage(url string) *Page {
	p, err := b.Page(url)
	utils.E(err)
	return p
}

// MustPageFromTarget is similar to PageFromTarget
func (b *Browser) MustPageFromTarget(targetID string) *Page {
	p, err := b.PageFromTarget(targetID)
	utils.E(err)
	return p
}

// MustNavigate to url
func (p *Page) MustNavigate(url string) *Page {
	utils.E(p.Navigate(url))
	return p
}

// MustWaitLoad is similar to WaitLoad
func (p *Page) MustWaitLoad() *Page {
	utils.E(p.WaitLoad())
	return p
}

// MustWaitNavigation is similar to WaitNavigation
func (p *Page) MustWaitNavigation(action func()) *Page {
	utils.E(p.WaitNavigation(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				e, ok := r.(error)
				if !ok {
					panic(r)
				}
				err = e
			}
		}()
		action()
		return nil
	}))
	return p
}

// MustReload is similar to Reload
func (p *Page) MustReload() *Page {
	utils.E(p.Reload())
	return p
}

// MustSetWindowSize is similar to SetWindowSize
func (p *Page) MustSetWindowSize(width, height int) *Page {
	utils.E(p.SetWindowSize(width, height))
	return p
}

// MustSetViewport is similar to SetViewport
func (p *Page) MustSetViewport(width, height int, scale float64) *Page {
	utils.E(p.SetViewport(width, height, scale))
	return p
}

// MustEmulate is similar to Emulate
func (p *Page) MustEmulate(device devices.Device, landscape bool) *Page {
	utils.E(p.Emulate(device, landscape))
	return p
}

// MustEval is similar to Eval
func (p *Page) MustEval(js string, args ...interface{}) gjson.Result {
	res, err := p.Eval(js, args...)
	utils.E(err)
	return res
}

// MustElement is similar to Element
func (p *Page) MustElement(selector string) *Element {
	el, err := p.Element(selector)
	utils.E(err)
	return el
}

// MustElementByText is similar to ElementByText
func (p *Page) MustElementByText(selector, regex string) *Element {
	el, err := p.ElementByText(selector, regex)
	utils.E(err)
	return el
}

// MustElementByJS is similar to ElementByJS
func (p *Page) MustElementByJS(js string, args ...interface{}) *Element {
	el, err := p.ElementByJS(js, args...)
	utils.E(err)
	return el
}

// MustHas is similar to Has
func (p *Page) MustHas(selector string) bool {
	has, err := p.Has(selector)
	utils.E(err)
	return has
}

// MustHTML is similar to HTML
func (p *Page) MustHTML() string {
	html, err := p.HTML()
	utils.E(err)
	return html
}

// MustScreenshot is similar to Screenshot.
// If the toFile is "", it will save output to "tmp/screenshots" folder, time as the file name.
func (p *Page) MustScreenshot(toFile ...string) []byte {
	bin, err := p.Screenshot()
	utils.E(err)
	utils.E(saveFile(bin, toFile))
	return bin
}

// MustScreenshotFullPage is similar to ScreenshotFullPage with the default options
func (p *Page) MustScreenshotFullPage() *image.RGBA {
	img, err := p.ScreenshotFullPage(nil)
	utils.E(err)
	return img
}

// MustScreenshotFullPageToFile is similar to ScreenshotFullPageToFile with the default options
func (p *Page) MustScreenshotFullPageToFile(path string) string {
	path, err := p.ScreenshotFullPageToFile(path, nil)
	utils.E(err)
	return path
}

// MustClose is similar to Close
func (p *Page) MustClose() {
	utils.E(p.Close())
}

// MustEval is similar to Eval
func (el *Element) MustEval(js string, args ...interface{}) gjson.Result {
	res, err := el.Eval(js, args...)
	utils.E(err)
	return res
}

// MustClick is similar to Click
func (el *Element) MustClick() *Element {
	utils.E(el.Click())
	return el
}

// MustInput is similar to Input
func (el *Element) MustInput(text string) *Element {
	utils.E(el.Input(text))
	return el
}

// MustClear is similar to Clear
func (el *Element) MustClear() *Element {
	utils.E(el.Clear())
	return el
}

// MustPress is similar to Press
func (el *Element) MustPress(keys ...input.Key) *Element {
	utils.E(el.Press(keys...))
	return el
}

// MustText is similar to Text
func (el *Element) MustText() string {
	s, err := el.Text()
	utils.E(err)
	return s
}

// MustAttribute is similar to Attribute
func (el *Element) MustAttribute(name string) *string {
	attr, err := el.Attribute(name)
	utils.E(err)
	return attr
}

// MustVisible is similar to Visible
func (el *Element) MustVisible() bool {
	v, err := el.Visible()
	utils.E(err)
	return v
}

// MustHTML is similar to HTML
func (el *Element) MustHTML() string {
	s, err := el.HTML()
	utils.E(err)
	return s
}
