package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TimeWindow is the ranking period used when selecting top posts.
type TimeWindow string

const (
	WindowHour  TimeWindow = "hour"
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowYear  TimeWindow = "year"
	WindowAll   TimeWindow = "all"
)

// Policy defaults, matching the values the scraper tool falls back to
// when the agent omits an argument.
const (
	DefaultTimeWindow = WindowWeek
	DefaultPostLimit  = 50
	DefaultCommentCap = 20
)

// Tombstone values left behind when a comment is deleted by its author
// or removed by moderation. The author field carries the same marker as
// a deleted body, but they are distinct sentinels.
const (
	BodyDeleted   = "[deleted]"
	BodyRemoved   = "[removed]"
	AuthorDeleted = "[deleted]"
)

func (w TimeWindow) Valid() bool {
	switch w {
	case WindowHour, WindowDay, WindowWeek, WindowMonth, WindowYear, WindowAll:
		return true
	}
	return false
}

func (w TimeWindow) String() string { return string(w) }

// FetchRequest describes a single user-initiated scrape. It is built once
// per trigger and never mutated afterwards.
type FetchRequest struct {
	Subreddit    string
	TimeWindow   TimeWindow
	PostLimit    int
	CommentLimit int
}

// Normalized returns a copy with policy defaults applied to unset fields.
func (r FetchRequest) Normalized() FetchRequest {
	r.Subreddit = strings.TrimSpace(r.Subreddit)
	if r.TimeWindow == "" {
		r.TimeWindow = DefaultTimeWindow
	}
	if r.PostLimit <= 0 {
		r.PostLimit = DefaultPostLimit
	}
	if r.CommentLimit <= 0 {
		r.CommentLimit = DefaultCommentCap
	}
	return r
}

// Validate reports the first problem that would make the request
// unservable.
func (r FetchRequest) Validate() error {
	if r.Subreddit == "" {
		return fmt.Errorf("subreddit name is required")
	}
	if !r.TimeWindow.Valid() {
		return fmt.Errorf("invalid time window %q", r.TimeWindow)
	}
	if r.PostLimit <= 0 {
		return fmt.Errorf("post limit must be positive, got %d", r.PostLimit)
	}
	if r.CommentLimit <= 0 {
		return fmt.Errorf("comment limit must be positive, got %d", r.CommentLimit)
	}
	return nil
}

// Post is the clean data structure written to snapshot files. Field names
// and nesting are the durable compatibility surface of the output format.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Score        int       `json:"score"`
	URL          string    `json:"url"`
	CommentCount int       `json:"num_comments"`
	CreatedUTC   time.Time `json:"created_utc"`
	Body         string    `json:"body"`
	IsOver18     bool      `json:"is_over18"`
	UpvoteRatio  float64   `json:"upvote_ratio"`
	Comments     []Comment `json:"comments"`
}

// Comment is a single surviving top-level comment, capped and filtered by
// the collector.
type Comment struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Body       string    `json:"body"`
	Score      int       `json:"score"`
	CreatedUTC time.Time `json:"created_utc"`
}

// Collector defines the interface for data fetching.
type Collector interface {
	FetchTopPosts(ctx context.Context, req FetchRequest) ([]Post, error)
}

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolEnvelope is the contract between the scraper tool and the agent
// orchestrator. It crosses the agent runtime's function-response boundary,
// so its payload form must be nested primitives only (see ToPayload).
type ToolEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// SuccessEnvelope builds a success envelope carrying the scraped posts.
// Data is always present on success, even when empty.
func SuccessEnvelope(message string, posts []Post) ToolEnvelope {
	if posts == nil {
		posts = []Post{}
	}
	return ToolEnvelope{Status: StatusSuccess, Message: message, Data: posts}
}

// ErrorEnvelope builds an error envelope. Data is absent.
func ErrorEnvelope(message string) ToolEnvelope {
	return ToolEnvelope{Status: StatusError, Message: message}
}

// ToPayload converts the envelope to the generic map form used as a
// function response. The data key is present only on success.
func (e ToolEnvelope) ToPayload() map[string]any {
	payload := map[string]any{
		"status":  e.Status,
		"message": e.Message,
	}
	if e.Status == StatusSuccess {
		payload["data"] = e.Data
	}
	return payload
}

// Outcome is the terminal result of one orchestration run. An empty
// OutputPath signals failure; otherwise a readable snapshot file exists at
// that path.
type Outcome struct {
	OutputPath string
}
