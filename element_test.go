package fullpage

import (
	"context"
	"errors"
	"time"

	"github.com/go-rod/fullpage/lib/input"
)

func (s *S) TestElement() {
	el := s.page.MustElement("#submit")
	s.Equal("#submit", el.ObjectID)
	s.Equal(s.page, el.Page())

	el.MustClick()
	press := s.tab.params["Input.dispatchMouseEvent"]
	s.Require().Len(press, 2)
	s.Equal("mousePressed", press[0].Get("type").String())
	s.Equal("mouseReleased", press[1].Get("type").String())
	s.Equal(10.0, press[1].Get("x").Float())
	s.Equal(20.0, press[1].Get("y").Float())
	s.Equal("left", press[1].Get("button").String())
	s.Equal(1, int(press[1].Get("buttons").Int()))

	el.MustInput("hello")
	s.Equal("hello", s.tab.lastParams("Input.insertText").Get("text").String())

	el.MustClear()
	keys := s.tab.params["Input.dispatchKeyEvent"]
	s.Require().Len(keys, 2)
	s.Equal("Backspace", keys[0].Get("key").String())
	s.Equal("rawKeyDown", keys[0].Get("type").String())
	s.Equal(8, int(keys[1].Get("windowsVirtualKeyCode").Int()))

	el.MustPress('a', input.Enter)
	keys = s.tab.params["Input.dispatchKeyEvent"]
	s.Require().Len(keys, 6)
	s.Equal("keyDown", keys[2].Get("type").String())
	s.Equal("a", keys[2].Get("text").String())
	s.Equal("KeyA", keys[3].Get("code").String())
	s.Equal("\r", keys[4].Get("text").String())

	s.Equal("text", el.MustText())
	s.True(el.MustVisible())
	s.Equal("/next", *el.MustAttribute("href"))
	s.Nil(el.MustAttribute("title"))

	s.Equal("#submit", s.tab.lastParams("Runtime.callFunctionOn").Get("objectId").String())
}

func (s *S) TestElementByText() {
	el := s.page.MustElementByText("a", "^Sign in$")
	s.Equal("a", el.ObjectID)

	s.True(s.page.MustHas("a"))
}

func (s *S) TestElementNotFound() {
	s.tab.missing = true

	page := s.page.Timeout(50 * time.Millisecond)
	defer page.CancelTimeout()

	_, err := page.Element("#none")
	s.True(IsError(err, ErrElementNotFound))
	s.True(errors.Is(err, context.DeadlineExceeded))

	s.False(s.page.MustHas("#none"))

	s.Panics(func() {
		page.MustElement("#none")
	})
}

func (s *S) TestElementEvalError() {
	_, err := s.page.ElementByJS(`() => { throw new Error('boom') }`)
	s.True(IsError(err, ErrEval))

	s.tab.failOn = "Runtime.callFunctionOn"
	s.tab.failAt = 1
	el := s.page.MustElement("#a")
	s.Error(el.Click())

	s.tab.failOn = "Input.insertText"
	s.Error(el.Input("x"))
}

func (s *S) TestIsError() {
	s.False(IsError(nil, ErrEval))
	s.False(IsError(errors.New("x"), ErrEval))

	inner := errors.New("inner")
	err := &Error{Err: inner, Code: ErrElementNotFound}
	s.True(errors.Is(err, inner))
	s.EqualError(err, "[fullpage] cannot find element")
}
