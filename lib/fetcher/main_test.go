package fetcher_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-rod/fullpage/lib/fetcher"
	"github.com/go-rod/fullpage/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshot builds a zip that has the executable at the path the fetcher expects
func snapshot(t *testing.T, b *fetcher.Browser) []byte {
	rel, err := filepath.Rel(filepath.Join(b.Dir, "chromium-1"), b.ExecPath())
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	w := zip.NewWriter(buf)
	f, err := w.Create(filepath.ToSlash(rel))
	require.NoError(t, err)
	_, err = f.Write([]byte("#!/bin/sh\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestGet(t *testing.T) {
	b := &fetcher.Browser{Dir: t.TempDir(), Revision: 1}

	hits := 0
	var zipData []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.True(t, strings.HasPrefix(r.URL.Path, "/chromium-browser-snapshots/"))
		assert.True(t, strings.HasSuffix(r.URL.Path, "/1/"+filepath.Base(r.URL.Path)))
		_, _ = w.Write(zipData)
	}))
	defer srv.Close()

	b.Host = srv.URL
	zipData = snapshot(t, b)

	logs := []string{}
	b.Logger = utils.Log(func(msg ...interface{}) {
		logs = append(logs, msg[0].(string))
	})

	p, err := b.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, b.ExecPath(), p)
	assert.FileExists(t, p)
	assert.Contains(t, logs, "[fetcher] download:")
	assert.Contains(t, logs, "[fetcher] progress:")

	// only the unzipped dir is left
	list, err := os.ReadDir(b.Dir)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = b.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestDownloadErr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	b := &fetcher.Browser{Dir: t.TempDir(), Host: srv.URL, Client: srv.Client()}
	err := b.Download(context.Background())
	assert.Contains(t, err.Error(), "404")

	u, err := b.URL()
	require.NoError(t, err)
	assert.Contains(t, u, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, b.Download(ctx))
}

func TestDefaults(t *testing.T) {
	b := &fetcher.Browser{}
	u, err := b.URL()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, fetcher.DefaultHost))
	assert.Contains(t, b.ExecPath(), filepath.Join("fullpage", "browser"))
}
