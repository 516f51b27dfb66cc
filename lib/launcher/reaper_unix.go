//go:build !windows

package launcher

import (
	"sync"

	"github.com/ramr/go-reaper"
)

var reaperOnce sync.Once

func runReaper() {
	reaperOnce.Do(func() {
		go reaper.Reap()
	})
}
