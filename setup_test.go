package fullpage

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-rod/fullpage/lib/cdp"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeTab is a scripted browser tab behind the CDPCall hook,
// every row of its document has a unique color.
type fakeTab struct {
	sync.Mutex

	browser *Browser

	width, viewport, height int
	y                       int

	calls   []string
	params  map[string][]gjson.Result
	failOn  string
	failAt  int
	counts  map[string]int
	missing bool // querySelector finds nothing
}

func newFakeTab(width, viewport, height int) *fakeTab {
	t := &fakeTab{
		width:    width,
		viewport: viewport,
		height:   height,
		params:   map[string][]gjson.Result{},
		counts:   map[string]int{},
	}
	t.browser = New().CDPCall(t.call)
	return t
}

func rowColor(y int) color.RGBA {
	return color.RGBA{R: uint8(y), G: uint8(y >> 8), B: 0x80, A: 0xff}
}

func value(v string) []byte {
	return []byte(`{"result":{"type":"object","value":` + v + `}}`)
}

// args of the js function rendered by sprintFnApply
func fnArgs(expression string) gjson.Result {
	i := strings.LastIndex(expression, ".apply(this, ")
	return gjson.Parse(strings.TrimSuffix(expression[i+len(".apply(this, "):], ")"))
}

func (t *fakeTab) clamp() {
	if max := t.height - t.viewport; t.y > max {
		t.y = max
	}
	if t.y < 0 {
		t.y = 0
	}
}

func (t *fakeTab) call(_ context.Context, sessionID, method string, params interface{}) ([]byte, error) {
	t.Lock()
	defer t.Unlock()

	p := gjson.ParseBytes(utils.MustToJSONBytes(params))

	t.calls = append(t.calls, method)
	t.params[method] = append(t.params[method], p)
	t.counts[method]++
	if t.failOn == method && t.counts[method] == t.failAt {
		return nil, errors.New("browser gone")
	}

	switch method {
	case "Target.createTarget":
		return []byte(`{"targetId":"t1"}`), nil
	case "Target.attachToTarget":
		return []byte(`{"sessionId":"s1"}`), nil
	case "Page.navigate":
		if strings.Contains(p.Get("url").String(), "not-exists") {
			return []byte(`{"frameId":"f","errorText":"net::ERR_NAME_NOT_RESOLVED"}`), nil
		}
		return []byte(`{"frameId":"f"}`), nil
	case "Page.reload":
		t.browser.event.Publish(&cdp.Event{SessionID: sessionID, Method: "Page.loadEventFired"})
		return []byte(`{}`), nil
	case "Browser.getWindowForTarget":
		return []byte(`{"windowId":3}`), nil
	case "Runtime.evaluate":
		return t.evaluate(p.Get("expression").String())
	case "Runtime.callFunctionOn":
		return t.callFunctionOn(p.Get("functionDeclaration").String(), p.Get("arguments"))
	case "Page.captureScreenshot":
		return t.capture(utils.ImgFormat(p.Get("format").String()))
	}

	return []byte(`{}`), nil
}

func (t *fakeTab) evaluate(expression string) ([]byte, error) {
	args := fnArgs(expression)

	switch {
	case strings.Contains(expression, "window.innerHeight"):
		return value(strconv.Itoa(t.viewport)), nil
	case strings.Contains(expression, "scrollHeight"):
		return value(strconv.Itoa(t.height)), nil
	case strings.Contains(expression, "window.scrollY"):
		return value(strconv.Itoa(t.y)), nil
	case strings.Contains(expression, "window.scrollTo"):
		t.y = int(args.Get("1").Int())
		t.clamp()
		return []byte(`{"result":{"type":"undefined"}}`), nil
	case strings.Contains(expression, "window.scrollBy"):
		t.y += int(args.Get("1").Int())
		t.clamp()
		return []byte(`{"result":{"type":"undefined"}}`), nil
	case strings.Contains(expression, "throw"):
		return []byte(`{"result":{"type":"object"},"exceptionDetails":{"text":"Uncaught",` +
			`"exception":{"description":"Error: boom"}}}`), nil
	case strings.Contains(expression, "outerHTML"):
		return value(`"<html><body></body></html>"`), nil
	case strings.Contains(expression, "readyState"):
		return []byte(`{"result":{"type":"undefined"}}`), nil
	case strings.Contains(expression, "querySelector"):
		if t.missing {
			return []byte(`{"result":{"type":"object","subtype":"null","value":null}}`), nil
		}
		return []byte(`{"result":{"type":"object","subtype":"node","objectId":"` + args.Get("0").String() + `"}}`), nil
	}

	return []byte(`{"result":{"type":"undefined"}}`), nil
}

func (t *fakeTab) callFunctionOn(fn string, args gjson.Result) ([]byte, error) {
	switch {
	case strings.Contains(fn, "getAttribute"):
		if args.Get("0.value").String() == "href" {
			return value(`"/next"`), nil
		}
		return value("null"), nil
	case strings.Contains(fn, "getComputedStyle"):
		return value("true"), nil
	case strings.Contains(fn, "x: r.left"):
		return value(`{"x":10,"y":20}`), nil
	case strings.Contains(fn, "this.value"):
		return value(`"text"`), nil
	}
	return []byte(`{"result":{"type":"undefined"}}`), nil
}

func (t *fakeTab) capture(format utils.ImgFormat) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.viewport))
	for y := 0; y < t.viewport; y++ {
		for x := 0; x < t.width; x++ {
			img.Set(x, y, rowColor(t.y+y))
		}
	}

	processor, err := utils.NewImgProcessor(format)
	if err != nil {
		return nil, err
	}
	bin, err := processor.Encode(img, nil)
	if err != nil {
		return nil, err
	}

	return []byte(`{"data":"` + base64.StdEncoding.EncodeToString(bin) + `"}`), nil
}

func (t *fakeTab) count(method string) int {
	t.Lock()
	defer t.Unlock()
	return t.counts[method]
}

func (t *fakeTab) lastParams(method string) gjson.Result {
	t.Lock()
	defer t.Unlock()
	list := t.params[method]
	if len(list) == 0 {
		return gjson.Result{}
	}
	return list[len(list)-1]
}

// S test suite
type S struct {
	suite.Suite

	tab  *fakeTab
	page *Page
}

func Test(t *testing.T) {
	suite.Run(t, new(S))
}

func (s *S) SetupTest() {
	s.tab = newFakeTab(20, 100, 250)
	s.page = s.tab.browser.MustPage("")
}
