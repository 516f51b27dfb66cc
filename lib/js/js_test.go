package js_test

import (
	"strings"
	"testing"

	"github.com/go-rod/fullpage/lib/js"
	"github.com/stretchr/testify/assert"
)

func TestScrollSettles(t *testing.T) {
	for _, fn := range []*js.Function{js.ScrollTo, js.ScrollBy} {
		assert.Contains(t, fn.Definition, "behavior: 'instant'", fn.Name)
		assert.Contains(t, fn.Definition, "requestAnimationFrame(() => requestAnimationFrame(", fn.Name)
		assert.Contains(t, fn.Definition, "return new Promise", fn.Name)
	}
	assert.Contains(t, js.ScrollTo.Definition, "window.scrollTo(")
	assert.Contains(t, js.ScrollBy.Definition, "window.scrollBy(")
}

func TestCall(t *testing.T) {
	assert.Equal(t, "(() => window.innerHeight)()", js.ViewportHeight.Call())
	assert.True(t, strings.HasSuffix(js.ScrollTo.Call(0, 1024), ")(0, 1024)"))
	assert.Equal(t, `(s => document.querySelector(s))("a \"b\"")`, js.Element.Call(`a "b"`))

	assert.Panics(t, func() {
		js.Element.Call(func() {})
	})
}
