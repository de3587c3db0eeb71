package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"github.com/hammamikhairi/yojana/internal/domain"
)

// transientError marks a failure worth retrying.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 4 * time.Second
	b.MaxElapsedTime = 0 // bounded by retry count and ctx instead
	return b
}

func (c *Client) newBreaker() *gobreaker.CircuitBreaker {
	failures := c.breakerFailures
	if failures == 0 {
		failures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     c.breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Only transport-level trouble counts against the breaker; a bad
		// request or an unusable body says nothing about availability.
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

// call runs fn under the breaker with a per-attempt timeout, retrying
// transient failures up to maxRetries times.
func (c *Client) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		_, err := c.breaker.Execute(func() (any, error) {
			actx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			err := fn(actx)
			if err != nil && ctx.Err() == nil && classify(err) {
				return nil, &transientError{err: err}
			}
			return nil, err
		})
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithMaxRetries(c.newBackOff(), uint64(max(c.maxRetries, 0)))
	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		c.log.Warn("%s: attempt %d failed (%v), retrying in %s", op, attempt, err, wait.Round(time.Millisecond))
	})
}

// wrap converts a call failure into a domain error of the given kind.
func (c *Client) wrap(kind error, op string, err error) error {
	transient := isTransient(err)
	var te *transientError
	if errors.As(err, &te) {
		err = te.err
	}
	c.log.Error("%s failed: %v", op, err)
	return &domain.Error{Kind: kind, Op: "gemini: " + op, Transient: transient, Err: err}
}

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// classify reports whether err is a transient transport failure: timeouts,
// network errors, HTTP 408/429 and 5xx.
func classify(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if code, ok := httpCode(err); ok {
		return code == http.StatusRequestTimeout ||
			code == http.StatusTooManyRequests ||
			code >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func httpCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	var gaxErr *apierror.APIError
	if errors.As(err, &gaxErr) && gaxErr.HTTPCode() > 0 {
		return gaxErr.HTTPCode(), true
	}
	return 0, false
}
