package collector

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"

	"snooscrape/internal/config"
	"snooscrape/internal/domain"
)

// RedditClient adapts the go-reddit API client into the domain.Collector
// contract: top posts for a time window, each carrying a bounded, filtered
// set of comments. Pagination, OAuth and transport live in the library.
type RedditClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRedditClient builds an authenticated client. It fails up front when
// credentials are missing rather than on the first request.
func NewRedditClient(cfg *config.Config, logger *slog.Logger) (*RedditClient, error) {
	rc := cfg.Reddit
	if rc.ClientID == "" || rc.ClientSecret == "" || rc.UserAgent == "" {
		return nil, wrap(ErrAuth, errors.New("reddit api credentials are not configured"))
	}

	creds := reddit.Credentials{
		ID:       rc.ClientID,
		Secret:   rc.ClientSecret,
		Username: rc.Username,
		Password: rc.Password,
	}
	client, err := reddit.NewClient(creds, reddit.WithUserAgent(rc.UserAgent))
	if err != nil {
		return nil, classify(err)
	}

	// API rate limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &RedditClient{client: client, limiter: limiter, logger: logger}, nil
}

// FetchTopPosts returns up to req.PostLimit posts ranked for the request's
// time window, in API order. Comment-fetch failures for individual posts
// are logged and yield an empty comment list; they never fail the run.
func (rc *RedditClient) FetchTopPosts(ctx context.Context, req domain.FetchRequest) ([]domain.Post, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := rc.limiter.Wait(ctx); err != nil {
		return nil, wrap(ErrTransient, err)
	}

	rc.logger.Info("fetching top posts",
		"subreddit", req.Subreddit,
		"window", req.TimeWindow.String(),
		"limit", req.PostLimit)

	posts, _, err := rc.client.Subreddit.TopPosts(ctx, req.Subreddit, &reddit.ListPostOptions{
		ListOptions: reddit.ListOptions{Limit: req.PostLimit},
		Time:        req.TimeWindow.String(),
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(posts) > req.PostLimit {
		posts = posts[:req.PostLimit]
	}

	result := make([]domain.Post, 0, len(posts))
	for i, p := range posts {
		if i > 0 && i%10 == 0 {
			rc.logger.Info("fetch progress", "posts_so_far", i)
		}
		comments := rc.fetchComments(ctx, p.ID, req.CommentLimit)
		result = append(result, convertPost(p, comments))
	}

	rc.logger.Info("finished scraping", "subreddit", req.Subreddit, "posts", len(result))
	return result, nil
}

// fetchComments loads the comment tree for one post and normalizes it.
// Failures are non-fatal by contract.
func (rc *RedditClient) fetchComments(ctx context.Context, postID string, limit int) []domain.Comment {
	if err := rc.limiter.Wait(ctx); err != nil {
		rc.logger.Warn("comment fetch aborted", "post", postID, "error", err)
		return []domain.Comment{}
	}

	pc, _, err := rc.client.Post.Get(ctx, postID)
	if err != nil {
		rc.logger.Warn("could not fetch comments", "post", postID, "error", err)
		return []domain.Comment{}
	}
	return normalizeComments(pc.Comments, limit)
}

// normalizeComments flattens the reply tree (load-more placeholders are
// simply never descended into), drops tombstoned or authorless comments,
// sorts by score descending and caps the result.
func normalizeComments(raw []*reddit.Comment, limit int) []domain.Comment {
	var flat []*reddit.Comment
	flatten(raw, &flat)

	kept := make([]domain.Comment, 0, len(flat))
	for _, c := range flat {
		if !keepComment(c) {
			continue
		}
		kept = append(kept, convertComment(c))
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

func flatten(comments []*reddit.Comment, out *[]*reddit.Comment) {
	for _, c := range comments {
		if c == nil {
			continue
		}
		*out = append(*out, c)
		flatten(c.Replies.Comments, out)
	}
}

// keepComment rejects comments with no resolvable author or a tombstone
// body. An empty body is kept; only the tombstone markers signal removal.
func keepComment(c *reddit.Comment) bool {
	if c.Author == "" || c.Author == domain.AuthorDeleted {
		return false
	}
	if c.Body == domain.BodyDeleted || c.Body == domain.BodyRemoved {
		return false
	}
	return true
}

func convertPost(p *reddit.Post, comments []domain.Comment) domain.Post {
	var created time.Time
	if p.Created != nil {
		created = p.Created.Time.UTC()
	}
	return domain.Post{
		ID:           p.ID,
		Title:        p.Title,
		Score:        p.Score,
		URL:          p.URL,
		CommentCount: p.NumberOfComments,
		CreatedUTC:   created,
		Body:         p.Body,
		IsOver18:     p.NSFW,
		UpvoteRatio:  float64(p.UpvoteRatio),
		Comments:     comments,
	}
}

func convertComment(c *reddit.Comment) domain.Comment {
	var created time.Time
	if c.Created != nil {
		created = c.Created.Time.UTC()
	}
	return domain.Comment{
		ID:         c.ID,
		Author:     c.Author,
		Body:       c.Body,
		Score:      c.Score,
		CreatedUTC: created,
	}
}
