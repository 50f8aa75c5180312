package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled context", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"rate limit status", errors.New("googleapi: Error 429: quota exceeded"), true},
		{"server error", errors.New("rpc error: code 503 unavailable"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED: out of quota"), true},
		{"bad request", errors.New("googleapi: Error 400: invalid argument"), false},
		{"auth failure", errors.New("API key not valid"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	base := time.Second
	maxDelay := 30 * time.Second

	prev := time.Duration(0)
	for attempt := 0; attempt < 10; attempt++ {
		d := backoff(base, attempt, maxDelay)
		assert.GreaterOrEqual(t, d, prev/2, "delay should trend upward")
		assert.LessOrEqual(t, d, maxDelay+maxDelay/4, "jitter stays within a quarter of the cap")
		prev = d
	}
}
