// Package fetcher downloads a chromium snapshot for machines that have no browser installed.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-rod/fullpage/lib/utils"
	"github.com/mholt/archiver/v3"
	"github.com/ysmood/kit"
)

// DefaultRevision of chromium to download
const DefaultRevision = 1321438

// DefaultHost of the snapshots
const DefaultHost = "https://storage.googleapis.com"

// Browser downloads a chromium snapshot into Dir.
// The zero value is ready to use.
type Browser struct {
	// Host default is DefaultHost
	Host string

	// Revision default is DefaultRevision
	Revision int

	// Dir default is filepath.Join(os.TempDir(), "fullpage", "browser")
	Dir string

	// Client is optional, http.DefaultClient is used by default
	Client *http.Client

	Logger utils.Logger
}

type platform struct {
	zip    string
	prefix string
	exe    string
}

var platforms = map[string]platform{
	"darwin":  {"chrome-mac.zip", "Mac", "chrome-mac/Chromium.app/Contents/MacOS/Chromium"},
	"linux":   {"chrome-linux.zip", "Linux_x64", "chrome-linux/chrome"},
	"windows": {"chrome-win.zip", "Win", "chrome-win/chrome.exe"},
}

func (b *Browser) dir() string {
	if b.Dir == "" {
		return filepath.Join(os.TempDir(), "fullpage", "browser")
	}
	return b.Dir
}

func (b *Browser) revision() int {
	if b.Revision == 0 {
		return DefaultRevision
	}
	return b.Revision
}

func (b *Browser) host() string {
	if b.Host == "" {
		return DefaultHost
	}
	return b.Host
}

func (b *Browser) logger() utils.Logger {
	if b.Logger == nil {
		return utils.LoggerQuiet
	}
	return b.Logger
}

func (b *Browser) platform() (platform, error) {
	p, has := platforms[runtime.GOOS]
	if !has {
		return p, fmt.Errorf("[fetcher] unsupported os: %s", runtime.GOOS)
	}
	return p, nil
}

func (b *Browser) unzipDir() string {
	return filepath.Join(b.dir(), fmt.Sprintf("chromium-%d", b.revision()))
}

// ExecPath of the chromium executable after download
func (b *Browser) ExecPath() string {
	p, _ := b.platform()
	return filepath.Join(b.unzipDir(), filepath.FromSlash(p.exe))
}

// URL of the zip
func (b *Browser) URL() (string, error) {
	p, err := b.platform()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/chromium-browser-snapshots/%s/%d/%s", b.host(), p.prefix, b.revision(), p.zip), nil
}

// Get returns the executable path, it downloads the browser if it's not downloaded yet
func (b *Browser) Get(ctx context.Context) (string, error) {
	if utils.FileExists(b.ExecPath()) {
		return b.ExecPath(), nil
	}
	return b.ExecPath(), b.Download(ctx)
}

// Download and unzip the browser
func (b *Browser) Download(ctx context.Context) error {
	u, err := b.URL()
	if err != nil {
		return err
	}

	log := b.logger()
	log.Println("[fetcher] download:", u)

	err = utils.Mkdir(b.dir())
	if err != nil {
		return err
	}

	req := kit.Req(u).Context(ctx)
	if b.Client != nil {
		req = req.Client(b.Client)
	}
	res, err := req.Response()
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("[fetcher] failed to download %s: %s", u, res.Status)
	}

	zipFile, err := os.CreateTemp(b.dir(), "chromium-*.zip")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(zipFile.Name()) }()

	progress := &progresser{r: res.Body, total: res.ContentLength, log: log}
	_, err = io.Copy(zipFile, progress)
	if cErr := zipFile.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		return err
	}

	log.Println("[fetcher] unzip:", b.unzipDir())

	_ = os.RemoveAll(b.unzipDir())
	return archiver.NewZip().Unarchive(zipFile.Name(), b.unzipDir())
}

type progresser struct {
	r     io.Reader
	total int64
	read  int64
	last  int64
	log   utils.Logger
}

// logs every 10 percent
func (pg *progresser) Read(p []byte) (n int, err error) {
	n, err = pg.r.Read(p)
	pg.read += int64(n)

	if pg.total > 0 {
		percent := pg.read * 100 / pg.total
		if percent/10 > pg.last/10 || err == io.EOF {
			pg.last = percent
			pg.log.Println("[fetcher] progress:", fmt.Sprintf("%d%%", percent))
		}
	}
	return
}
