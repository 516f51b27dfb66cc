// Package main ...
package main

import (
	"context"

	"github.com/chromedp/chromedp"
	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/surface/chromedpsurface"
	"github.com/go-rod/fullpage/lib/utils"
)

// This example demonstrates how to capture a long page with a tab that chromedp controls.
func main() {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	utils.E(chromedp.Run(ctx,
		chromedp.EmulateViewport(1280, 1024),
		chromedp.Navigate("https://brank.as/"),
	))

	utils.E(stitch.CaptureToFile(ctx, chromedpsurface.New(ctx), "fullScreenshot.png", nil))
}
