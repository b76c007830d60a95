package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Preflight checks that the target site answers before a browser is
// launched, so a dead endpoint fails fast instead of burning a Chrome
// start. Status failures map into the run's error taxonomy.
func Preflight(ctx context.Context, client *resty.Client, baseURL string) error {
	resp, err := client.R().SetContext(ctx).Get(baseURL)
	if err != nil {
		return ErrConnection{Err: err}
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusForbidden:
		return ErrForbidden{Err: fmt.Errorf("http status %d", status)}
	case status == http.StatusNotFound:
		return ErrNotFound{Err: fmt.Errorf("http status %d", status)}
	case status == http.StatusTooManyRequests:
		return ErrRateLimited{Err: fmt.Errorf("http status %d", status)}
	case status >= http.StatusBadRequest:
		return fmt.Errorf("preflight %s: http status %d", baseURL, status)
	}
	return nil
}

// NewPreflightClient builds the resty client used for the reachability
// check.
func NewPreflightClient(userAgent string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
}
