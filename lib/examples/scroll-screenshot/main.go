// Package main ...
package main

import (
	"fmt"

	"github.com/go-rod/fullpage"
	"github.com/go-rod/fullpage/lib/stitch"
	"github.com/go-rod/fullpage/lib/utils"
)

// This example demonstrates how to capture a long page as one image.
// The page is captured viewport by viewport, the captures are jpeg to keep the temp files small.
func main() {
	browser := fullpage.New().MustConnect()
	defer browser.MustClose()

	page := browser.MustPage("https://github.com/").MustWaitLoad().MustSetWindowSize(1280, 1024)

	p, err := page.ScreenshotFullPageToFile("fullScreenshot.png", &stitch.Options{
		Format: utils.ImgFormatJPEG,
		Logger: utils.LoggerStd,
	})
	utils.E(err)

	fmt.Println("saved", p)
}
