package collector

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/loganintech/go-reddit/v2/reddit"
)

// Adapter error taxonomy. Callers match with errors.Is; the scraper tool
// downgrades all of them to error envelopes.
var (
	// ErrNotFound means the subreddit does not exist or is private.
	ErrNotFound = errors.New("subreddit not found or private")

	// ErrAuth means credentials are absent or were rejected.
	ErrAuth = errors.New("reddit authentication failed")

	// ErrTransient covers network and rate-limit failures. No retry policy
	// here; the error is propagated to the caller as-is.
	ErrTransient = errors.New("transient reddit api error")
)

// classify maps a go-reddit error onto the adapter taxonomy. Unrecognized
// errors pass through unwrapped.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *reddit.RateLimitError
	if errors.As(err, &rateErr) {
		return wrap(ErrTransient, err)
	}

	var apiErr *reddit.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		switch code := apiErr.Response.StatusCode; {
		case code == http.StatusNotFound, code == http.StatusForbidden:
			return wrap(ErrNotFound, err)
		case code == http.StatusUnauthorized:
			return wrap(ErrAuth, err)
		case code == http.StatusTooManyRequests, code >= 500:
			return wrap(ErrTransient, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return wrap(ErrTransient, err)
	}

	return err
}

type classifiedError struct {
	kind  error
	cause error
}

func wrap(kind, cause error) error {
	return &classifiedError{kind: kind, cause: cause}
}

func (e *classifiedError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *classifiedError) Is(target error) bool { return target == e.kind }

func (e *classifiedError) Unwrap() error { return e.cause }
