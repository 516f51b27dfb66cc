package fullpage

import (
	"github.com/go-rod/fullpage/lib/input"
	"github.com/tidwall/gjson"
)

// Element represents the DOM element
type Element struct {
	scope

	page *Page

	// ObjectID of the remote object
	ObjectID string
}

// Page of the element
func (el *Element) Page() *Page {
	return el.page
}

// Eval js function on the element, "this" in the js is the element
func (el *Element) Eval(js string, args ...interface{}) (gjson.Result, error) {
	callArgs := []map[string]interface{}{}
	for _, a := range args {
		callArgs = append(callArgs, map[string]interface{}{"value": a})
	}

	res, err := el.page.callCtx(el.ctx, "Runtime.callFunctionOn", map[string]interface{}{
		"objectId":            el.ObjectID,
		"functionDeclaration": `function() { return (` + js + `).apply(this, arguments) }`,
		"arguments":           callArgs,
		"awaitPromise":        true,
		"returnByValue":       true,
	})
	if err != nil {
		return gjson.Result{}, err
	}

	if res.Get("exceptionDetails").Exists() {
		return gjson.Result{}, &Error{Code: ErrEval, Details: exceptionText(res)}
	}

	return res.Get("result.value"), nil
}

// ScrollIntoView scrolls the current element into the visible area of the browser
// window if it's not already within the visible area.
func (el *Element) ScrollIntoView() error {
	_, err := el.Eval(`function() {
		if (this.scrollIntoViewIfNeeded) this.scrollIntoViewIfNeeded(true)
		else this.scrollIntoView({ block: 'center' })
	}`)
	return err
}

// Click the element with the left mouse button at the center of its box
func (el *Element) Click() error {
	err := el.ScrollIntoView()
	if err != nil {
		return err
	}

	box, err := el.Eval(`function() {
		const r = this.getBoundingClientRect()
		return { x: r.left + r.width / 2, y: r.top + r.height / 2 }
	}`)
	if err != nil {
		return err
	}

	x, y := box.Get("x").Float(), box.Get("y").Float()

	button, flag := input.EncodeMouseButton([]input.MouseButton{input.MouseLeft})

	for _, t := range []string{"mousePressed", "mouseReleased"} {
		_, err = el.page.callCtx(el.ctx, "Input.dispatchMouseEvent", map[string]interface{}{
			"type":       t,
			"x":          x,
			"y":          y,
			"button":     button,
			"buttons":    flag,
			"clickCount": 1,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Focus sets focus on the element
func (el *Element) Focus() error {
	_, err := el.Eval(`function() { this.focus() }`)
	return err
}

// Input focuses on the element and inserts the text like a keyboard
func (el *Element) Input(text string) error {
	err := el.Focus()
	if err != nil {
		return err
	}

	_, err = el.page.callCtx(el.ctx, "Input.insertText", map[string]interface{}{"text": text})
	return err
}

// Clear the value of the input field, it selects all the text and presses the backspace key
func (el *Element) Clear() error {
	_, err := el.Eval(`function() {
		this.focus()
		if (this.select) this.select()
		else document.execCommand('selectAll')
	}`)
	if err != nil {
		return err
	}

	return el.Press(input.Backspace)
}

// Press the keys one by one on the focused element
func (el *Element) Press(keys ...input.Key) error {
	for _, k := range keys {
		info := k.Info()

		down := map[string]interface{}{
			"type":                  "rawKeyDown",
			"key":                   info.Key,
			"code":                  info.Code,
			"windowsVirtualKeyCode": info.KeyCode,
			"location":              info.Location,
		}
		if k.Printable() {
			down["type"] = "keyDown"
			down["text"] = info.Key
		}

		up := map[string]interface{}{
			"type":                  "keyUp",
			"key":                   info.Key,
			"code":                  info.Code,
			"windowsVirtualKeyCode": info.KeyCode,
			"location":              info.Location,
		}

		for _, params := range []map[string]interface{}{down, up} {
			_, err := el.page.callCtx(el.ctx, "Input.dispatchKeyEvent", params)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Text of the element, for input and textarea it's the value
func (el *Element) Text() (string, error) {
	res, err := el.Eval(`function() {
		if (this.tagName === 'INPUT' || this.tagName === 'TEXTAREA') return this.value
		return this.innerText
	}`)
	return res.String(), err
}

// Attribute of the element, nil if the attribute doesn't exist
func (el *Element) Attribute(name string) (*string, error) {
	res, err := el.Eval(`function(n) { return this.getAttribute(n) }`, name)
	if err != nil {
		return nil, err
	}
	if res.Type == gjson.Null {
		return nil, nil
	}
	s := res.String()
	return &s, nil
}

// Visible returns true if the element is rendered and has a box
func (el *Element) Visible() (bool, error) {
	res, err := el.Eval(`function() {
		const box = this.getBoundingClientRect()
		const style = window.getComputedStyle(this)
		return style.display !== 'none' && style.visibility !== 'hidden' && !!(box.top || box.bottom || box.width || box.height)
	}`)
	return res.Bool(), err
}

// HTML of the element
func (el *Element) HTML() (string, error) {
	res, err := el.Eval(`function() { return this.outerHTML }`)
	return res.String(), err
}
