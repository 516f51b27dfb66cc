// Package main ...
package main

import (
	"context"

	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/surface/rodsurface"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/go-rod/rod"
)

// This example demonstrates how to capture a page that blocks headless browsers,
// the page is created with the stealth patches applied.
func main() {
	browser := rod.New().MustConnect()
	defer browser.MustClose()

	s, err := rodsurface.NewStealth(browser)
	utils.E(err)

	s.Page().MustNavigate("https://bot.sannysoft.com").MustWaitLoad()

	utils.E(stitch.CaptureToFile(context.Background(), s, "chrome-headless-test.png", nil))
}
