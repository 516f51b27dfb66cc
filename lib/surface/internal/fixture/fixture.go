// Package fixture serves a tall test page and launches a local browser for the surface tests.
package fixture

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-rod/fullpage/lib/launcher"
)

// Width and Height of the document served by Serve
const (
	Width  = 300
	Height = 2500
)

// Viewport height the tests use, Height is not a multiple of it
const Viewport = 1024

// Serve a page whose document is exactly Height css pixels tall.
// It scrolls smoothly, the captures must still line up.
func Serve(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, `<html><head><style>html{scroll-behavior:smooth}</style></head><body style="margin:0">
			<div style="height:%dpx;background:linear-gradient(red, blue)"></div>
		</body></html>`, Height)
	}))
	t.Cleanup(srv.Close)

	return srv.URL
}

// Browser launches a local headless browser and returns its websocket control url.
// The test is skipped if no browser can be found.
func Browser(t *testing.T) string {
	t.Helper()

	bin, has := launcher.LookPath()
	if !has {
		t.Skip("no browser found")
	}

	l := launcher.New().Bin(bin).UserDataDir(t.TempDir()).KeepUserDataDir()
	u, err := l.Launch()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		l.Kill()
		l.Cleanup()
	})

	return u
}
