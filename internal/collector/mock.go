package collector

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"snooscrape/internal/domain"
)

// MockClient implements domain.Collector with fabricated data. It lets the
// full agent pipeline run without Reddit credentials.
type MockClient struct {
	// Err, when set, is returned from every fetch. Used to exercise the
	// tool's failure mapping.
	Err error

	// Latency simulates the blocking network calls of the real adapter.
	Latency time.Duration
}

func NewMockClient() *MockClient {
	return &MockClient{Latency: 500 * time.Millisecond}
}

func (mc *MockClient) FetchTopPosts(ctx context.Context, req domain.FetchRequest) ([]domain.Post, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if mc.Err != nil {
		return nil, mc.Err
	}

	if mc.Latency > 0 {
		select {
		case <-time.After(mc.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	posts := make([]domain.Post, 0, req.PostLimit)
	for i := 0; i < req.PostLimit; i++ {
		commentTotal := rand.Intn(req.CommentLimit + 1)
		comments := make([]domain.Comment, 0, commentTotal)
		for j := 0; j < commentTotal; j++ {
			comments = append(comments, domain.Comment{
				ID:         fmt.Sprintf("mockc_%d_%d", i, j),
				Author:     "simulated_user",
				Body:       fmt.Sprintf("Simulated comment #%d", j),
				Score:      rand.Intn(200),
				CreatedUTC: time.Now().UTC(),
			})
		}
		posts = append(posts, domain.Post{
			ID:           fmt.Sprintf("mock_%s_%d", req.Subreddit, i),
			Title:        fmt.Sprintf("[%s] Simulated top post #%d", req.Subreddit, i),
			Score:        rand.Intn(5000),
			URL:          "http://localhost/mock-url",
			CommentCount: commentTotal,
			CreatedUTC:   time.Now().UTC(),
			Body:         "Simulated self text.",
			UpvoteRatio:  0.97,
			Comments:     comments,
		})
	}
	return posts, nil
}
