package collector

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/stretchr/testify/assert"
)

func apiError(status int) error {
	return &reddit.ErrorResponse{Response: &http.Response{StatusCode: status}}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"rate limit is transient", &reddit.RateLimitError{}, ErrTransient},
		{"404 is not found", apiError(http.StatusNotFound), ErrNotFound},
		{"403 is not found", apiError(http.StatusForbidden), ErrNotFound},
		{"401 is auth", apiError(http.StatusUnauthorized), ErrAuth},
		{"429 is transient", apiError(http.StatusTooManyRequests), ErrTransient},
		{"503 is transient", apiError(http.StatusServiceUnavailable), ErrTransient},
		{"deadline is transient", context.DeadlineExceeded, ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyPreservesCause(t *testing.T) {
	cause := apiError(http.StatusNotFound)
	got := classify(cause)

	var apiErr *reddit.ErrorResponse
	assert.ErrorAs(t, got, &apiErr)
}

func TestClassifyUnknownErrorPassesThrough(t *testing.T) {
	cause := errors.New("something else entirely")
	got := classify(cause)

	assert.Equal(t, cause, got)
	assert.NotErrorIs(t, got, ErrTransient)
	assert.NotErrorIs(t, got, ErrNotFound)
}
