package scraper

import (
	"errors"
	"fmt"
)

// ErrBrowserStart indicates the browser engine could not be launched.
type ErrBrowserStart struct {
	Err error
}

func (e ErrBrowserStart) Error() string {
	return fmt.Errorf("browser start: %w", e.Err).Error()
}

func (e ErrBrowserStart) Unwrap() error {
	return e.Err
}

// ErrNavigation indicates a page navigation or rendering failure.
type ErrNavigation struct {
	URL string
	Err error
}

func (e ErrNavigation) Error() string {
	return fmt.Errorf("navigation %s: %w", e.URL, e.Err).Error()
}

func (e ErrNavigation) Unwrap() error {
	return e.Err
}

// ErrReappearTimeout indicates the load-more control never reappeared
// within the bounded wait after an activation.
type ErrReappearTimeout struct {
	URL string
	Err error
}

func (e ErrReappearTimeout) Error() string {
	return fmt.Errorf("load-more reappearance timeout on %s: %w", e.URL, e.Err).Error()
}

func (e ErrReappearTimeout) Unwrap() error {
	return e.Err
}

// ErrExtraction indicates a product card could not be fully extracted.
type ErrExtraction struct {
	Err error
}

func (e ErrExtraction) Error() string {
	return fmt.Errorf("extraction: %w", e.Err).Error()
}

func (e ErrExtraction) Unwrap() error {
	return e.Err
}

// ErrForbidden indicates a forbidden response (HTTP 403).
type ErrForbidden struct {
	Err error
}

func (e ErrForbidden) Error() string {
	return fmt.Errorf("forbidden: %w", e.Err).Error()
}

func (e ErrForbidden) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates a missing resource (HTTP 404).
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return fmt.Errorf("not_found: %w", e.Err).Error()
}

func (e ErrNotFound) Unwrap() error {
	return e.Err
}

// ErrRateLimited indicates the target rate-limited the request.
type ErrRateLimited struct {
	Err error
}

func (e ErrRateLimited) Error() string {
	return fmt.Errorf("rate_limited: %w", e.Err).Error()
}

func (e ErrRateLimited) Unwrap() error {
	return e.Err
}

// ErrConnection indicates a network connectivity failure.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var browserStart ErrBrowserStart
	if errors.As(err, &browserStart) {
		return "browser_start"
	}
	var reappear ErrReappearTimeout
	if errors.As(err, &reappear) {
		return "timeout"
	}
	var navigation ErrNavigation
	if errors.As(err, &navigation) {
		return "navigation"
	}
	var extraction ErrExtraction
	if errors.As(err, &extraction) {
		return "extraction"
	}
	var forbidden ErrForbidden
	if errors.As(err, &forbidden) {
		return "forbidden"
	}
	var notFound ErrNotFound
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var rateLimited ErrRateLimited
	if errors.As(err, &rateLimited) {
		return "rate_limited"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	return "other"
}
