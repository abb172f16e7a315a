package netcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// URLStatus is the outcome of one HTTP reachability check.
type URLStatus struct {
	URL        string
	Accessible bool  // the request completed with a status below 400.
	StatusCode int   // zero when the request never completed.
	Err        error // transport-level failure; nil on any HTTP response.
}

// HTTPChecker fetches URLs and classifies them by status code.
type HTTPChecker struct {
	Timeout time.Duration // per-request timeout; default five seconds.
	Workers int           // concurrent requests; default DefaultWorkers.
	Client  *http.Client  // leave nil for a default client.
}

// Check fetches every URL and returns one status each, in input order.
func (c *HTTPChecker) Check(ctx context.Context, urls []string) []URLStatus {
	client := c.Client
	if client == nil {
		client = &http.Client{}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	statuses := make([]URLStatus, len(urls))
	runPool(c.Workers, len(urls), func(i int) {
		statuses[i] = checkURL(ctx, client, timeout, urls[i])
	})

	return statuses
}

func checkURL(ctx context.Context, client *http.Client, timeout time.Duration, url string) URLStatus {
	status := URLStatus{URL: url}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		status.Err = fmt.Errorf("building request: %w", err)

		return status
	}

	resp, err := client.Do(req)
	if err != nil {
		status.Err = fmt.Errorf("fetching %s: %w", url, err)

		return status
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused across the batch.
	_, _ = io.Copy(io.Discard, resp.Body)

	status.StatusCode = resp.StatusCode
	status.Accessible = resp.StatusCode < http.StatusBadRequest

	return status
}
