// Package js holds the page scripts the capture drivers share.
package js

import (
	"encoding/json"
	"strings"
)

// Function definition
type Function struct {
	Name       string
	Definition string
}

// Call renders an expression that calls the function with the json encoded args,
// it's for the drivers that only evaluate expressions
func (f *Function) Call(args ...interface{}) string {
	list := make([]string, 0, len(args))
	for _, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			panic(err)
		}
		list = append(list, string(b))
	}
	return "(" + f.Definition + ")(" + strings.Join(list, ", ") + ")"
}

// ViewportHeight of the window
var ViewportHeight = &Function{
	Name:       "viewportHeight",
	Definition: `() => window.innerHeight`,
}

// ScrollHeight of the document body, 0 before the body exists
var ScrollHeight = &Function{
	Name:       "scrollHeight",
	Definition: `() => document.body ? document.body.scrollHeight : 0`,
}

// ScrollOffset of the window, rounded for fractional device scales
var ScrollOffset = &Function{
	Name:       "scrollOffset",
	Definition: `() => Math.round(window.scrollY)`,
}

// settled resolves after two animation frames, so the scrolled content is painted.
// Background tabs may never run a frame, the timer bounds the wait.
const settled = `new Promise(r => {
		setTimeout(r, 200)
		requestAnimationFrame(() => requestAnimationFrame(() => r()))
	})`

// ScrollTo absolute position, it ignores the css scroll-behavior and resolves when the page is repainted
var ScrollTo = &Function{
	Name: "scrollTo",
	Definition: `(x, y) => {
	window.scrollTo({ left: x, top: y, behavior: 'instant' })
	return ` + settled + `
}`,
}

// ScrollBy relative distance, it ignores the css scroll-behavior and resolves when the page is repainted
var ScrollBy = &Function{
	Name: "scrollBy",
	Definition: `(x, y) => {
	window.scrollBy({ left: x, top: y, behavior: 'instant' })
	return ` + settled + `
}`,
}

// WaitLoad resolves when the window load event has fired
var WaitLoad = &Function{
	Name: "waitLoad",
	Definition: `() => new Promise(r => {
		if (document.readyState === 'complete') return r()
		window.addEventListener('load', () => r())
	})`,
}

// Element by css selector
var Element = &Function{
	Name:       "element",
	Definition: `s => document.querySelector(s)`,
}

// ElementByText returns the first element that matches the css selector and the text regex
var ElementByText = &Function{
	Name: "elementByText",
	Definition: `(s, r) => {
		const reg = new RegExp(r)
		for (const el of document.querySelectorAll(s)) {
			if (reg.test(el.innerText || el.textContent)) return el
		}
		return null
	}`,
}
