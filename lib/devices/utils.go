// Package devices has the screen presets a page can emulate before the capture.
package devices

import (
	"errors"
	"strings"
)

// ErrDeviceNotExists err
var ErrDeviceNotExists = errors.New("[devices] device not exists")

// Device represents an emulated device
type Device struct {
	Title     string
	Width     int
	Height    int
	Scale     float64
	Mobile    bool
	Touch     bool
	UserAgent string
}

// Screen orientation
type Screen struct {
	Width  int
	Height int
	Angle  int
	Type   string
}

// Clear is the zero device, emulating it restores the real screen
var Clear = Device{}

// IsClear returns true for the zero device
func (d Device) IsClear() bool {
	return d == Clear
}

// Screen size in css pixels
func (d Device) Screen(landscape bool) Screen {
	if landscape {
		return Screen{Width: d.Height, Height: d.Width, Angle: 90, Type: "landscapePrimary"}
	}
	return Screen{Width: d.Width, Height: d.Height, Angle: 0, Type: "portraitPrimary"}
}

// Find the device by title, case insensitive
func Find(title string) (Device, error) {
	for _, d := range List {
		if strings.EqualFold(d.Title, title) {
			return d, nil
		}
	}
	return Clear, ErrDeviceNotExists
}
