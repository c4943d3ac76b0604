package milvus

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	baseRetryDelay  = 200 * time.Millisecond
	maxRetryDelay   = 2 * time.Second
)

// newHTTPClient creates an HTTP client tuned for outbound service calls.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// retry executes fn with exponential backoff, capped at maxRetryDelay.
func retry(ctx context.Context, attempts int, fn func() error) error {
	if attempts <= 1 {
		return fn()
	}

	var err error
	delay := baseRetryDelay
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !isRetriable(err) {
			return err
		}

		// Do not sleep after last attempt
		if i == attempts-1 {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}

	return err
}

// isRetriable determines if the error is worth retrying.
func isRetriable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrServiceUnavailable)
}
