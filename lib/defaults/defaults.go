// Package defaults holds some commonly used options parsed from env var "fullpage".
// Set them will set the default value of options used by fullpage.
// Each value is separated by a ",", key and value are separated by "=",
// For example:
//
//    fullpage=show,slow=1s,cdp
//
//    fullpage=bin=/usr/bin/chromium,port=9222,dir=tmp/shots,format=jpeg
//
package defaults

import (
	"os"
	"strings"
	"time"

	"github.com/go-rod/fullpage/lib/utils"
)

// Show disables headless mode
var Show bool

// Slow is the delay after each scroll before the next capture, it gives the page time to repaint
var Slow time.Duration

// Bin is the default of launcher.Launcher.Bin
var Bin string

// Port is the default remote debugging port of launcher.New
var Port string

// URL is the control url of a running browser, when set no local browser will be launched
var URL string

// Dir is the default folder to save the full page screenshots
var Dir string

// Format is the default format of the viewport captures
var Format utils.ImgFormat

// CDP enables the log of the devtools protocol traffic
var CDP bool

func init() {
	ResetWithEnv()
}

// Reset all flags to their init values.
func Reset() {
	Show = false
	Slow = 0
	Bin = ""
	Port = "0"
	URL = ""
	Dir = "tmp/screenshots"
	Format = utils.ImgFormatPNG
	CDP = false
}

// ResetWithEnv all flags by the value of the fullpage env var.
func ResetWithEnv() {
	Reset()
	parse(os.Getenv("fullpage"))
}

// parse options and set them globally
func parse(options string) {
	if options == "" {
		return
	}

	for _, f := range strings.Split(options, ",") {
		kv := strings.SplitN(f, "=", 2)
		rule, has := rules[kv[0]]
		if !has {
			panic("no such fullpage option: " + kv[0])
		}
		if len(kv) == 2 {
			rule(kv[1])
		} else {
			rule("")
		}
	}
}

var rules = map[string]func(string){
	"show": func(string) {
		Show = true
	},
	"slow": func(v string) {
		var err error
		Slow, err = time.ParseDuration(v)
		utils.E(err)
	},
	"bin": func(v string) {
		Bin = v
	},
	"port": func(v string) {
		Port = v
	},
	"url": func(v string) {
		URL = v
	},
	"dir": func(v string) {
		Dir = v
	},
	"format": func(v string) {
		Format = utils.ImgFormat(v).Normalize()
	},
	"cdp": func(string) {
		CDP = true
	},
}
