//go:build windows

package launcher

func runReaper() {}
