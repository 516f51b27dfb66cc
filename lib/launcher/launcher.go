// Package launcher starts a local browser with a remote debugging port for the screenshot pipeline.
package launcher

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-rod/fullpage/lib/defaults"
	"github.com/go-rod/fullpage/lib/fetcher"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/ysmood/kit"
	"github.com/ysmood/leakless"
)

// ErrAlreadyLaunched is an error that indicates the launcher has already been launched.
var ErrAlreadyLaunched = errors.New("already launched")

const flagKeepUserDataDir = "keep-user-data-dir"

// Launcher is a helper to launch browser binary smartly
type Launcher struct {
	// Flags of the browser, the key is the flag name without "--"
	Flags map[string][]string `json:"flags"`

	ctx       context.Context
	ctxCancel func()

	bin      string
	fetcher  *fetcher.Browser
	logger   io.Writer
	parser   *URLParser
	pid      int
	exit     chan utils.Nil
	launched bool
	reap     bool
	leakless bool
}

// New returns the default arguments to start browser.
// "--" is optional, with or without it won't affect the result.
// List of switches: https://peter.sh/experiments/chromium-command-line-switches/
func New() *Launcher {
	dir := filepath.Join(os.TempDir(), "fullpage", "user-data", utils.RandString(8))

	defaultFlags := map[string][]string{
		"user-data-dir": {dir},

		// use random port by default
		"remote-debugging-port": {defaults.Port},

		// enable headless by default
		"headless": nil,

		// to prevent welcome page
		"": {"about:blank"},

		"disable-background-networking":          nil,
		"disable-background-timer-throttling":    nil,
		"disable-backgrounding-occluded-windows": nil,
		"disable-breakpad":                       nil,
		"disable-default-apps":                   nil,
		"disable-dev-shm-usage":                  nil,
		"disable-extensions":                     nil,
		"disable-features":                       {"site-per-process", "TranslateUI"},
		"disable-hang-monitor":                   nil,
		"disable-popup-blocking":                 nil,
		"disable-renderer-backgrounding":         nil,
		"disable-sync":                           nil,
		"enable-automation":                      nil,
		"force-color-profile":                    {"srgb"},
		"hide-scrollbars":                        nil,
		"metrics-recording-only":                 nil,
		"no-first-run":                           nil,
		"use-mock-keychain":                      nil,
	}

	if defaults.Show {
		delete(defaultFlags, "headless")
	}

	if isInDocker() {
		defaultFlags["no-sandbox"] = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Launcher{
		ctx:       ctx,
		ctxCancel: cancel,
		Flags:     defaultFlags,
		bin:       defaults.Bin,
		logger:    io.Discard,
		parser:    NewURLParser(),
		exit:      make(chan utils.Nil),
		reap:      os.Getpid() == 1,
		leakless:  true,
	}
}

// Context sets the context, cancel it will stop waiting for the control url
func (l *Launcher) Context(ctx context.Context) *Launcher {
	ctx, cancel := context.WithCancel(ctx)
	l.ctx = ctx
	l.ctxCancel = cancel
	return l
}

// Get flag's first value
func (l *Launcher) Get(name string) (string, bool) {
	list, has := l.GetFlags(name)

	if has {
		if len(list) == 0 {
			return "", true
		}
		return list[0], true
	}
	return "", false
}

// GetFlags from settings
func (l *Launcher) GetFlags(name string) ([]string, bool) {
	flag, has := l.Flags[strings.TrimLeft(name, "-")]
	return flag, has
}

// Set flag
func (l *Launcher) Set(name string, values ...string) *Launcher {
	l.Flags[strings.TrimLeft(name, "-")] = values
	return l
}

// Append values to the flag
func (l *Launcher) Append(name string, values ...string) *Launcher {
	flags, _ := l.GetFlags(name)
	return l.Set(name, append(flags, values...)...)
}

// Delete flag
func (l *Launcher) Delete(name string) *Launcher {
	delete(l.Flags, strings.TrimLeft(name, "-"))
	return l
}

// Bin set browser executable file path
func (l *Launcher) Bin(path string) *Launcher {
	l.bin = path
	return l
}

// Fetch the browser with f when no bin is set and LookPath finds nothing
func (l *Launcher) Fetch(f *fetcher.Browser) *Launcher {
	l.fetcher = f
	return l
}

// Headless switch
func (l *Launcher) Headless(enable bool) *Launcher {
	if enable {
		return l.Set("headless")
	}
	return l.Delete("headless")
}

// WindowSize of the first tab, the viewport height of the captures derives from it
func (l *Launcher) WindowSize(width, height int) *Launcher {
	return l.Set("window-size", strconv.Itoa(width), strconv.Itoa(height))
}

// UserDataDir is where the browser will look for all of its state, such as cookie and cache.
// When set to empty, system user's default dir will be used.
func (l *Launcher) UserDataDir(dir string) *Launcher {
	if dir == "" {
		return l.Delete("user-data-dir")
	}
	return l.Set("user-data-dir", dir)
}

// RemoteDebuggingPort arg
func (l *Launcher) RemoteDebuggingPort(port int) *Launcher {
	return l.Set("remote-debugging-port", strconv.Itoa(port))
}

// KeepUserDataDir after browser is closed. By default user-data-dir will be removed.
func (l *Launcher) KeepUserDataDir() *Launcher {
	return l.Set(flagKeepUserDataDir)
}

// Log sets the writer for the stdout and stderr of the browser process
func (l *Launcher) Log(w io.Writer) *Launcher {
	l.logger = w
	return l
}

// Reap enable/disable a guard to cleanup zombie processes, it's enabled by default when running as pid 1
func (l *Launcher) Reap(enable bool) *Launcher {
	l.reap = enable
	return l
}

// Leakless switch. When enabled the browser will be killed after the current process exits.
func (l *Launcher) Leakless(enable bool) *Launcher {
	l.leakless = enable
	return l
}

// FormatArgs returns the formatted arg list for cli
func (l *Launcher) FormatArgs() []string {
	execArgs := []string{}
	for k, v := range l.Flags {
		if k == "" || k == flagKeepUserDataDir {
			continue
		}

		// fix a bug of chrome, if path is not absolute chrome will hang
		if k == "user-data-dir" && len(v) > 0 {
			abs, err := filepath.Abs(v[0])
			utils.E(err)
			v = []string{abs}
		}

		str := "--" + k
		if v != nil {
			str += "=" + strings.Join(v, ",")
		}
		execArgs = append(execArgs, str)
	}
	return append(execArgs, l.Flags[""]...)
}

// MustLaunch is similar to Launch
func (l *Launcher) MustLaunch() string {
	u, err := l.Launch()
	utils.E(err)
	return u
}

// Launch a standalone temp browser instance and returns the websocket control url.
func (l *Launcher) Launch() (string, error) {
	if l.launched {
		return "", ErrAlreadyLaunched
	}
	l.launched = true

	defer l.ctxCancel()

	if l.reap {
		runReaper()
	}

	bin := l.bin
	if bin == "" {
		found, has := LookPath()
		if !has && l.fetcher == nil {
			return "", ErrBrowserNotFound
		}
		if !has {
			var err error
			found, err = l.fetcher.Get(l.ctx)
			if err != nil {
				return "", err
			}
		}
		bin = found
	}

	var ll *leakless.Launcher
	var cmd *exec.Cmd

	if l.leakless && leakless.Support() {
		ll = leakless.New()
		cmd = ll.Command(bin, l.FormatArgs()...)
	} else {
		cmd = exec.Command(bin, l.FormatArgs()...)
		l.osSetupCmd(cmd)
	}

	cmd.Stdout = l.logger
	cmd.Stderr = io.MultiWriter(l.logger, l.parser)

	if err := cmd.Start(); err != nil {
		return "", err
	}

	if ll == nil {
		l.pid = cmd.Process.Pid
	} else {
		select {
		case <-l.ctx.Done():
			_ = cmd.Process.Kill()
			return "", l.ctx.Err()
		case pid := <-ll.Pid():
			l.pid = pid
			if ll.Err() != "" {
				return "", errors.New(ll.Err())
			}
		}
	}

	go func() {
		_ = cmd.Wait()
		close(l.exit)
	}()

	u, err := l.getURL()
	if err != nil {
		l.Kill()
		return "", err
	}

	return ResolveURL(l.ctx, u)
}

func (l *Launcher) getURL() (string, error) {
	select {
	case <-l.ctx.Done():
		return "", l.ctx.Err()
	case u := <-l.parser.URL:
		return u, nil
	case <-l.exit:
		return "", l.parser.Err()
	}
}

// PID returns the browser process pid
func (l *Launcher) PID() int {
	return l.pid
}

// Kill the browser process group
func (l *Launcher) Kill() {
	if l.pid == 0 {
		return
	}
	killGroup(l.pid)
	_ = kit.KillTree(l.pid)
}

// Cleanup wait until the Browser exits and release related resources
func (l *Launcher) Cleanup() {
	<-l.exit

	if _, has := l.Get(flagKeepUserDataDir); has {
		return
	}
	dir, _ := l.Get("user-data-dir")
	_ = os.RemoveAll(dir)
}

func isInDocker() bool {
	return utils.FileExists("/.dockerenv")
}
