// Package report tells a remote browser grid whether a job passed.
package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-rod/fullpage/lib/utils"
	"github.com/tidwall/sjson"
	"github.com/ysmood/kit"
)

// DefaultEndpoint of the job status api
const DefaultEndpoint = "https://saucelabs.com"

// Reporter marks a job as passed or failed
type Reporter interface {
	Report(ctx context.Context, jobID string, passed bool) error
}

// Nop reporter does nothing
type Nop struct{}

// Report interface
func (Nop) Report(context.Context, string, bool) error {
	return nil
}

// Func adapts a function to the Reporter interface
type Func func(ctx context.Context, jobID string, passed bool) error

// Report interface
func (f Func) Report(ctx context.Context, jobID string, passed bool) error {
	return f(ctx, jobID, passed)
}

// JobStatus sends the result to the rest api of the grid:
//
//	PUT {Endpoint}/rest/v1/{Username}/jobs/{jobID}
//	{"passed": true}
type JobStatus struct {
	Endpoint  string
	Username  string
	AccessKey string

	// Client is optional, http.DefaultClient is used by default
	Client *http.Client

	Logger utils.Logger
}

// NewJobStatus with the default endpoint
func NewJobStatus(username, accessKey string) *JobStatus {
	return &JobStatus{
		Endpoint:  DefaultEndpoint,
		Username:  username,
		AccessKey: accessKey,
		Logger:    utils.LoggerQuiet,
	}
}

// Error when the api doesn't respond with 200
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[report] unexpected status %d: %s", e.Status, e.Body)
}

// Report interface
func (j *JobStatus) Report(ctx context.Context, jobID string, passed bool) error {
	body, err := sjson.Set(`{}`, "passed", passed)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/rest/v1/%s/jobs/%s",
		strings.TrimRight(j.Endpoint, "/"), url.PathEscape(j.Username), url.PathEscape(jobID))

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(j.Username+":"+j.AccessKey)))

	req := kit.Req(u).Context(ctx).Method(http.MethodPut).Headers(header).StringBody(body)
	if j.Client != nil {
		req = req.Client(j.Client)
	}

	res, err := req.Response()
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return &Error{Status: res.StatusCode, Body: string(b)}
	}

	if j.Logger != nil {
		j.Logger.Println("[report]", jobID, "passed:", passed)
	}
	return nil
}

// JobURL is the page of the job for humans
func (j *JobStatus) JobURL(jobID string) string {
	return strings.TrimRight(j.Endpoint, "/") + "/jobs/" + url.PathEscape(jobID)
}
