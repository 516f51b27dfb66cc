package matrix_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-rod/fullpage"
	"github.com/go-rod/fullpage/lib/devices"
	"github.com/go-rod/fullpage/lib/matrix"
	"github.com/go-rod/fullpage/lib/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	sync.Mutex
	methods []string
}

func (r *recorder) call(_ context.Context, _, method string, _ interface{}) ([]byte, error) {
	r.Lock()
	defer r.Unlock()
	r.methods = append(r.methods, method)
	return []byte(`{"targetId":"t1","sessionId":"s1","windowId":1}`), nil
}

func (r *recorder) count(method string) int {
	r.Lock()
	defer r.Unlock()
	n := 0
	for _, m := range r.methods {
		if m == method {
			n++
		}
	}
	return n
}

type reports struct {
	list []string
}

func (r *reports) Report(_ context.Context, id string, passed bool) error {
	if passed {
		r.list = append(r.list, id+":passed")
	} else {
		r.list = append(r.list, id+":failed")
	}
	return nil
}

func TestRun(t *testing.T) {
	rec := &recorder{}
	rep := &reports{}

	targets, err := matrix.Parse([]byte(`
- name: chrome
- name: edge
  job_id: job-edge
  device: ipad
- browser: firefox
  width: 800
`))
	require.NoError(t, err)

	r := matrix.New(targets)
	r.Reporter = rep
	r.Connect = func(_ context.Context, tg matrix.Target) (*fullpage.Browser, error) {
		if tg.Name == "firefox" {
			return nil, errors.New("no firefox")
		}
		return fullpage.New().CDPCall(rec.call), nil
	}

	sizes := []int{}
	list, err := r.Run(context.Background(), func(_ context.Context, s *matrix.Session) error {
		sizes = append(sizes, s.Target.Width)
		if s.Target.Name == "edge" {
			panic(errors.New("boom"))
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.True(t, list[0].Passed)
	assert.Equal(t, "t1", list[0].JobID)
	assert.False(t, list[1].Passed)
	assert.EqualError(t, list[1].Err, "boom")
	assert.EqualError(t, list[2].Err, "no firefox")
	assert.False(t, matrix.Passed(list))

	assert.Equal(t, []int{1280, 1280}, sizes)
	assert.Equal(t, []string{"t1:passed", "job-edge:failed", "firefox:failed"}, rep.list)
	assert.Equal(t, 2, rec.count("Browser.close"))
	assert.Equal(t, 2, rec.count("Browser.setWindowBounds"))
	assert.Equal(t, 1, rec.count("Emulation.setDeviceMetricsOverride"))
}

func TestRunReportError(t *testing.T) {
	rec := &recorder{}
	r := matrix.New(matrix.Default())
	r.Connect = func(context.Context, matrix.Target) (*fullpage.Browser, error) {
		return fullpage.New().CDPCall(rec.call), nil
	}
	r.Reporter = report.Func(func(context.Context, string, bool) error {
		return errors.New("grid down")
	})

	list, err := r.Run(context.Background(), func(_ context.Context, s *matrix.Session) error {
		s.JobID = "custom"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, list[0].Passed)
	assert.Equal(t, "custom", list[0].JobID)
	assert.EqualError(t, list[0].ReportErr, "grid down")
	assert.True(t, matrix.Passed(list))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list, err := matrix.New(matrix.Default()).Run(ctx, nil)
	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, list)
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
- name: remote
  platform: linux
  control_url: grid:9222
  height: 600
  tags: [nightly]
`), 0o644))

	list, err := matrix.Load(p)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "grid:9222", list[0].ControlURL)
	assert.Equal(t, 1280, list[0].Width)
	assert.Equal(t, 600, list[0].Height)
	assert.Equal(t, []string{"nightly"}, list[0].Tags)
	assert.Equal(t, "remote@linux", list[0].String())

	_, err = matrix.Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)

	_, err = matrix.Parse([]byte(`- platform: linux`))
	assert.EqualError(t, err, "[matrix] target 0 has no name")

	_, err = matrix.Parse([]byte("- name: a\n- name: a"))
	assert.EqualError(t, err, "[matrix] duplicated target name: a")

	_, err = matrix.Parse([]byte("- name: a\n  device: nokia"))
	assert.ErrorIs(t, err, devices.ErrDeviceNotExists)

	_, err = matrix.Parse([]byte(`{`))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	list := matrix.Default()
	require.Len(t, list, 1)
	assert.False(t, list[0].Show)
	assert.Equal(t, 1280, list[0].Width)
	assert.Equal(t, 1024, list[0].Height)
}
