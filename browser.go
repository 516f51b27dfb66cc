// Package fullpage is a DevTools driver to capture web pages as one full length image.
// It also has the few interaction primitives a capture flow usually needs before the capture,
// such as navigate, locate, click, type and wait for page load.
package fullpage

import (
	"context"
	"errors"
	"time"

	"github.com/go-rod/fullpage/lib/cdp"
	"github.com/go-rod/fullpage/lib/defaults"
	"github.com/go-rod/fullpage/lib/launcher"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/tidwall/gjson"
	"github.com/ysmood/goob"
)

// CDPCall type for cdp.Client.CDPCall
type CDPCall func(ctx context.Context, sessionID, method string, params interface{}) ([]byte, error)

// Browser represents the browser.
// It doesn't depends on file system, it should work with remote browser seamlessly.
// To check the env var you can use to quickly enable options from CLI, check here:
// https://pkg.go.dev/github.com/go-rod/fullpage/lib/defaults
type Browser struct {
	scope

	slowmotion time.Duration // delay after each scroll
	logger     utils.Logger

	client   *cdp.Client
	cdpCall  CDPCall
	event    *goob.Observable // all the browser events from cdp client
	launcher *launcher.Launcher
}

// New creates a controller
func New() *Browser {
	return &Browser{
		scope:      newScope(context.Background()),
		slowmotion: defaults.Slow,
		logger:     utils.LoggerQuiet,
		event:      goob.New(context.Background()),
	}
}

// ControlURL set the url to remote control browser.
func (b *Browser) ControlURL(url string) *Browser {
	b.client = cdp.New(url)
	return b
}

// Client set the cdp client
func (b *Browser) Client(c *cdp.Client) *Browser {
	b.client = c
	return b
}

// Slowmotion set the delay after each scroll, it gives lazy content time to render before the capture
func (b *Browser) Slowmotion(delay time.Duration) *Browser {
	b.slowmotion = delay
	return b
}

// Logger for the progress of the operations
func (b *Browser) Logger(l utils.Logger) *Browser {
	b.logger = l
	return b
}

// Launcher used by Connect when there's no control url, the launcher is cleaned up by Close
func (b *Browser) Launcher(l *launcher.Launcher) *Browser {
	b.launcher = l
	return b
}

// CDPCall overrides the cdp.Client.Call, set it to nil to restore the default client
func (b *Browser) CDPCall(fn CDPCall) *Browser {
	b.cdpCall = fn
	return b
}

// Connect to the browser and start to control it.
// If no control url is set, defaults.URL is used, if it's empty too a local browser will be launched.
func (b *Browser) Connect() error {
	if b.client == nil {
		u := defaults.URL
		if u == "" || b.launcher != nil {
			if b.launcher == nil {
				b.launcher = launcher.New().Context(b.ctx)
			}
			var err error
			u, err = b.launcher.Launch()
			if err != nil {
				return err
			}
		} else {
			var err error
			u, err = launcher.ResolveURL(b.ctx, u)
			if err != nil {
				return err
			}
		}
		b.client = cdp.New(u)
	}

	err := b.client.Connect(b.ctx)
	if err != nil {
		return err
	}

	b.initEvents()

	return nil
}

// Close the browser and release related resources
func (b *Browser) Close() error {
	_, err := b.Call(b.ctx, "", "Browser.close", nil)
	if b.client != nil {
		b.client.Close()
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
	}
	b.cancel()
	return err
}

// Call raw cdp interface directly
func (b *Browser) Call(ctx context.Context, sessionID, method string, params interface{}) ([]byte, error) {
	if b.cdpCall != nil {
		return b.cdpCall(ctx, sessionID, method, params)
	}
	if b.client == nil {
		return nil, errors.New("[fullpage] browser is not connected")
	}
	return b.client.Call(ctx, sessionID, method, params)
}

func (b *Browser) call(method string, params interface{}) (gjson.Result, error) {
	res, err := b.Call(b.ctx, "", method, params)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(res), nil
}

// Page creates a new tab, if url is empty, the default target will be "about:blank".
func (b *Browser) Page(url string) (*Page, error) {
	if url == "" {
		url = "about:blank"
	}

	target, err := b.call("Target.createTarget", map[string]interface{}{"url": url})
	if err != nil {
		return nil, err
	}

	return b.PageFromTarget(target.Get("targetId").String())
}

// PageFromTarget attaches to an existing target and returns the page for it
func (b *Browser) PageFromTarget(targetID string) (*Page, error) {
	session, err := b.call("Target.attachToTarget", map[string]interface{}{
		"targetId": targetID,
		"flatten":  true, // if it's not set no response will return
	})
	if err != nil {
		return nil, err
	}

	p := &Page{
		scope:     newScope(b.ctx),
		browser:   b,
		TargetID:  targetID,
		SessionID: session.Get("sessionId").String(),
	}

	_, err = p.call("Page.enable", nil)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Event returns a channel of the browser events.
// It will be closed when the browser context is done.
func (b *Browser) Event() <-chan *cdp.Event {
	src := b.event.Subscribe(b.ctx)
	dst := make(chan *cdp.Event)
	go func() {
		defer close(dst)
		for {
			select {
			case <-b.ctx.Done():
				return
			case e, ok := <-src:
				if !ok {
					return
				}
				select {
				case <-b.ctx.Done():
					return
				case dst <- e.(*cdp.Event):
				}
			}
		}
	}()
	return dst
}

// EventFilter to filter events
type EventFilter func(*cdp.Event) bool

// WaitEvent subscribes to the events that match the filter immediately, the returned wait
// function blocks until the first matching event after the subscription, or the ctx is done.
func (b *Browser) WaitEvent(filter EventFilter) (wait func() (*cdp.Event, error)) {
	ctx, cancel := context.WithCancel(b.ctx)
	events := b.event.Subscribe(ctx)

	return func() (*cdp.Event, error) {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case e, ok := <-events:
				if !ok {
					return nil, ctx.Err()
				}
				if evt := e.(*cdp.Event); filter(evt) {
					return evt, nil
				}
			}
		}
	}
}

func (b *Browser) initEvents() {
	go func() {
		for msg := range b.client.Event() {
			b.event.Publish(msg)
		}
	}()
}

// Method creates an event filter that matches the event method name
func Method(name string) EventFilter {
	return func(e *cdp.Event) bool {
		return e.Method == name
	}
}

// sleep for the slowmotion delay
func (b *Browser) slow(ctx context.Context) error {
	if b.slowmotion == 0 {
		return nil
	}

	t := time.NewTimer(b.slowmotion)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
