package fullpage

import (
	"context"
	"time"
)

// scope is the ctx that the operations of a Browser, Page or Element run in.
// Clones share the timeoutCancel of their parent, so CancelTimeout works on both.
type scope struct {
	ctx           context.Context
	cancel        func()
	timeoutCancel func()
}

func newScope(ctx context.Context) scope {
	return scope{ctx: ctx, cancel: func() {}}
}

// derive a cancelable scope from ctx, false if ctx is the current one
func (s scope) derive(ctx context.Context) (scope, bool) {
	if ctx == s.ctx {
		return s, false
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s, true
}

// deadline returns a ctx that expires after d, the cancel is kept for cancelTimeout
func (s *scope) deadline(d time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(s.ctx, d)
	s.timeoutCancel = cancel
	return ctx
}

func (s *scope) cancelTimeout() {
	if s.timeoutCancel != nil {
		s.timeoutCancel()
	}
}

// Context creates a clone with a context that inherits the previous one
func (b *Browser) Context(ctx context.Context) *Browser {
	sc, ok := b.scope.derive(ctx)
	if !ok {
		return b
	}
	clone := *b
	clone.scope = sc
	return &clone
}

// Cancel current context
func (b *Browser) Cancel() *Browser {
	b.cancel()
	return b
}

// Timeout for chained sub-operations
func (b *Browser) Timeout(d time.Duration) *Browser {
	return b.Context(b.deadline(d))
}

// CancelTimeout context
func (b *Browser) CancelTimeout() *Browser {
	b.cancelTimeout()
	return b
}

// Context creates a clone with a context that inherits the previous one
func (p *Page) Context(ctx context.Context) *Page {
	sc, ok := p.scope.derive(ctx)
	if !ok {
		return p
	}
	clone := *p
	clone.scope = sc
	return &clone
}

// Cancel current context
func (p *Page) Cancel() *Page {
	p.cancel()
	return p
}

// Timeout for chained sub-operations, such as a whole ScreenshotFullPage
func (p *Page) Timeout(d time.Duration) *Page {
	return p.Context(p.deadline(d))
}

// CancelTimeout context
func (p *Page) CancelTimeout() *Page {
	p.cancelTimeout()
	return p
}

// Context creates a clone with a context that inherits the previous one
func (el *Element) Context(ctx context.Context) *Element {
	sc, ok := el.scope.derive(ctx)
	if !ok {
		return el
	}
	clone := *el
	clone.scope = sc
	return &clone
}

// Cancel current context
func (el *Element) Cancel() *Element {
	el.cancel()
	return el
}

// Timeout for chained sub-operations
func (el *Element) Timeout(d time.Duration) *Element {
	return el.Context(el.deadline(d))
}

// CancelTimeout context
func (el *Element) CancelTimeout() *Element {
	el.cancelTimeout()
	return el
}
