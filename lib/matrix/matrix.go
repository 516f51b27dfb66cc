// Package matrix runs the same capture fixture against a list of browsers,
// one browser at a time, and reports the outcome of each run.
package matrix

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/fullpage"
	"github.com/go-rod/fullpage/lib/devices"
	"github.com/go-rod/fullpage/lib/launcher"
	"github.com/go-rod/fullpage/lib/report"
	"github.com/go-rod/fullpage/lib/utils"
)

// Session of a single target
type Session struct {
	Target  Target
	Browser *fullpage.Browser
	Page    *fullpage.Page

	// JobID reported for this run, the fixture may overwrite it
	JobID string
}

// Fixture is the test body, it's instantiated once per target
type Fixture func(ctx context.Context, s *Session) error

// Connect returns a connected browser for the target
type Connect func(ctx context.Context, t Target) (*fullpage.Browser, error)

// Result of a target
type Result struct {
	Target   Target
	JobID    string
	Passed   bool
	Err      error
	Duration time.Duration

	// ReportErr is set when the reporter fails, it doesn't change Passed
	ReportErr error
}

// Runner of the matrix
type Runner struct {
	Targets  []Target
	Connect  Connect
	Reporter report.Reporter
	Logger   utils.Logger
}

// New runner with the default connect function and no reporter
func New(targets []Target) *Runner {
	return &Runner{
		Targets:  targets,
		Connect:  DefaultConnect,
		Reporter: report.Nop{},
		Logger:   utils.LoggerQuiet,
	}
}

// DefaultConnect connects to the ControlURL of the target or launches a local browser
func DefaultConnect(ctx context.Context, t Target) (*fullpage.Browser, error) {
	b := fullpage.New().Context(ctx)

	if t.ControlURL != "" {
		u, err := launcher.ResolveURL(ctx, t.ControlURL)
		if err != nil {
			return nil, err
		}
		b = b.ControlURL(u)
	} else {
		l := launcher.New().Context(ctx).Headless(!t.Show).WindowSize(t.Width, t.Height)
		if t.Bin != "" {
			l = l.Bin(t.Bin)
		}
		b = b.Launcher(l)
	}

	return b, b.Connect()
}

// Run the fixture for each target sequentially. It only returns an error when ctx is done,
// the results of the targets that have run are still returned.
func (r *Runner) Run(ctx context.Context, fixture Fixture) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = utils.LoggerQuiet
	}

	list := []Result{}
	for _, t := range r.Targets {
		if err := ctx.Err(); err != nil {
			return list, err
		}

		res := r.runTarget(ctx, t, fixture)

		if r.Reporter != nil {
			res.ReportErr = r.Reporter.Report(ctx, res.JobID, res.Passed)
			if res.ReportErr != nil {
				logger.Println("[matrix]", t, "report failed:", res.ReportErr)
			}
		}

		logger.Println("[matrix]", t, "passed:", res.Passed, "duration:", res.Duration)
		list = append(list, res)
	}
	return list, nil
}

func (r *Runner) runTarget(ctx context.Context, t Target, fixture Fixture) (res Result) {
	start := time.Now()
	res = Result{Target: t, JobID: t.JobID}
	if res.JobID == "" {
		res.JobID = t.Name
	}

	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				res.Err = e
			} else {
				res.Err = fmt.Errorf("[matrix] panic: %v", v)
			}
		}
		res.Passed = res.Err == nil
		res.Duration = time.Since(start)
	}()

	connect := r.Connect
	if connect == nil {
		connect = DefaultConnect
	}

	b, err := connect(ctx, t)
	if err != nil {
		res.Err = err
		return
	}
	defer func() { _ = b.Close() }()

	page, err := b.Page("")
	if err != nil {
		res.Err = err
		return
	}

	err = page.SetWindowSize(t.Width, t.Height)
	if err != nil {
		res.Err = err
		return
	}

	if t.Device != "" {
		d, err := devices.Find(t.Device)
		if err == nil {
			err = page.Emulate(d, t.Landscape)
		}
		if err != nil {
			res.Err = err
			return
		}
	}

	s := &Session{Target: t, Browser: b, Page: page, JobID: t.JobID}
	if s.JobID == "" {
		s.JobID = page.TargetID
	}
	defer func() { res.JobID = s.JobID }()

	res.Err = fixture(ctx, s)
	return
}

// Passed returns true if all the targets passed
func Passed(list []Result) bool {
	for _, r := range list {
		if !r.Passed {
			return false
		}
	}
	return true
}
