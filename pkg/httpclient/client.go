package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes caps how much of a provider response is read into memory.
const maxResponseBytes = 10 << 20

type implCaller struct {
	client *http.Client
}

// New creates a Caller with the given overall request timeout.
// A zero timeout means the request is bounded only by its context.
func New(timeout time.Duration) Caller {
	return &implCaller{
		client: &http.Client{Timeout: timeout},
	}
}

// Do executes the request and returns the status code and the full body.
// A transport failure returns a wrapped error; a non-2xx status is not an
// error here, callers decide what each status means.
func (c *implCaller) Do(req *http.Request) (int, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}
