// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
)

// RetryBaseDelay controls the first backoff interval on HTTP 429 responses
// that carry no Retry-After header. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// RetryMaxDelay caps a single backoff interval.
var RetryMaxDelay = 60 * time.Second

const defaultMaxRetries = 3

// StatusError reports a response whose status code the caller did not accept.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

// IsStatusError reports whether err wraps a *StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// CheckStatus returns a *StatusError unless resp has status 200 OK.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	u := ""
	if resp.Request != nil && resp.Request.URL != nil {
		u = resp.Request.URL.String()
	}
	return &StatusError{Code: resp.StatusCode, URL: u}
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests). The wait honors a numeric Retry-After header when present and
// otherwise follows an exponential backoff starting at RetryBaseDelay.
//
// A negative maxRetries selects the default (3); 0 disables retries. On each 429 the response
// body is drained and closed before sleeping. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last 429 response is returned so the caller can inspect it.
// Any other status, and any transport error, is returned without retrying.
//
// Requests with a body must set GetBody (http.NewRequest does this for
// bytes.Reader, bytes.Buffer and strings.Reader) so the body can be replayed.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = RetryBaseDelay
	b.MaxInterval = RetryMaxDelay
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	for attempt := 0; ; attempt++ {
		attemptReq, err := replay(ctx, req)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries: return the 429 response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		wait := b.NextBackOff()
		if ra, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			wait = ra
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// replay clones req for another attempt, rewinding the body if there is one.
func replay(ctx context.Context, req *http.Request) (*http.Request, error) {
	r := req.Clone(ctx)
	if req.Body == nil || req.Body == http.NoBody {
		return r, nil
	}
	if req.GetBody == nil {
		return r, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewinding request body: %w", err)
	}
	r.Body = body
	return r, nil
}

// retryAfter parses a Retry-After value given in (possibly fractional)
// seconds. HTTP-date values are ignored.
func retryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs * float64(time.Second))
	if d > RetryMaxDelay {
		d = RetryMaxDelay
	}
	return d, true
}
