package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWindowValid(t *testing.T) {
	for _, w := range []TimeWindow{WindowHour, WindowDay, WindowWeek, WindowMonth, WindowYear, WindowAll} {
		assert.True(t, w.Valid(), "window %q should be valid", w)
	}
	for _, w := range []TimeWindow{"", "weekly", "WEEK", "yesterday"} {
		assert.False(t, w.Valid(), "window %q should be invalid", w)
	}
}

func TestFetchRequestNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   FetchRequest
		want FetchRequest
	}{
		{
			name: "empty request gets all defaults",
			in:   FetchRequest{Subreddit: "golang"},
			want: FetchRequest{Subreddit: "golang", TimeWindow: WindowWeek, PostLimit: 50, CommentLimit: 20},
		},
		{
			name: "explicit values survive",
			in:   FetchRequest{Subreddit: "golang", TimeWindow: WindowDay, PostLimit: 5, CommentLimit: 3},
			want: FetchRequest{Subreddit: "golang", TimeWindow: WindowDay, PostLimit: 5, CommentLimit: 3},
		},
		{
			name: "whitespace trimmed and negatives replaced",
			in:   FetchRequest{Subreddit: "  golang  ", PostLimit: -1, CommentLimit: -1},
			want: FetchRequest{Subreddit: "golang", TimeWindow: WindowWeek, PostLimit: 50, CommentLimit: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalized())
		})
	}
}

func TestFetchRequestValidate(t *testing.T) {
	valid := FetchRequest{Subreddit: "golang", TimeWindow: WindowWeek, PostLimit: 10, CommentLimit: 5}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mut  func(r *FetchRequest)
	}{
		{"missing subreddit", func(r *FetchRequest) { r.Subreddit = "" }},
		{"bad window", func(r *FetchRequest) { r.TimeWindow = "fortnight" }},
		{"zero post limit", func(r *FetchRequest) { r.PostLimit = 0 }},
		{"zero comment limit", func(r *FetchRequest) { r.CommentLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mut(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestSuccessEnvelopeNeverNilData(t *testing.T) {
	env := SuccessEnvelope("nothing found", nil)
	require.Equal(t, StatusSuccess, env.Status)

	posts, ok := env.Data.([]Post)
	require.True(t, ok)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestToPayload(t *testing.T) {
	t.Run("success carries data key", func(t *testing.T) {
		env := SuccessEnvelope("scraped 1 posts from r/golang", []Post{{ID: "abc"}})
		payload := env.ToPayload()

		assert.Equal(t, StatusSuccess, payload["status"])
		assert.Equal(t, "scraped 1 posts from r/golang", payload["message"])
		require.Contains(t, payload, "data")
	})

	t.Run("error omits data key", func(t *testing.T) {
		payload := ErrorEnvelope("boom").ToPayload()

		assert.Equal(t, StatusError, payload["status"])
		assert.Equal(t, "boom", payload["message"])
		assert.NotContains(t, payload, "data")
	})
}
