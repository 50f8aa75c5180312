package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"snooscrape/internal/domain"
)

// ScraperTool exposes the collector to the agent as a callable. It maps
// every collector outcome, including faults, to a ToolEnvelope.
type ScraperTool struct {
	collector domain.Collector
	logger    *slog.Logger
}

func NewScraperTool(collector domain.Collector, logger *slog.Logger) *ScraperTool {
	return &ScraperTool{collector: collector, logger: logger}
}

func (t *ScraperTool) Name() string {
	return "reddit_subreddit_scraper"
}

func (t *ScraperTool) Description() string {
	return "Scrapes top posts and their comments from a specified subreddit for a given time filter."
}

func (t *ScraperTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"subreddit": {
					Type:        genai.TypeString,
					Description: "Name of the subreddit to scrape, without the r/ prefix",
				},
				"time_filter": {
					Type:        genai.TypeString,
					Description: "Ranking period for top posts",
					Enum:        []string{"hour", "day", "week", "month", "year", "all"},
				},
				"limit": {
					Type:        genai.TypeInteger,
					Description: "Maximum number of posts to fetch",
				},
			},
			Required: []string{"subreddit"},
		},
	}
}

func (t *ScraperTool) Validate(args map[string]any) error {
	sub, ok := GetString(args, "subreddit")
	if !ok || strings.TrimSpace(sub) == "" {
		return NewValidationError("subreddit", "is required")
	}
	return nil
}

// Execute runs one scrape. The collector call blocks on the network; the
// runner invokes Execute off its own event loop.
func (t *ScraperTool) Execute(ctx context.Context, args map[string]any) domain.ToolEnvelope {
	sub := strings.TrimSpace(GetStringDefault(args, "subreddit", ""))
	if sub == "" {
		return domain.ErrorEnvelope("missing required argument: subreddit")
	}

	req := domain.FetchRequest{
		Subreddit:  sub,
		TimeWindow: domain.TimeWindow(GetStringDefault(args, "time_filter", domain.DefaultTimeWindow.String())),
		PostLimit:  GetIntDefault(args, "limit", domain.DefaultPostLimit),
	}.Normalized()
	if err := req.Validate(); err != nil {
		return domain.ErrorEnvelope(fmt.Sprintf("invalid arguments: %v", err))
	}

	t.logger.Info("scraper tool executing", "subreddit", req.Subreddit,
		"window", req.TimeWindow.String(), "limit", req.PostLimit)

	posts, err := t.collector.FetchTopPosts(ctx, req)
	if err != nil {
		t.logger.Error("scrape failed", "subreddit", req.Subreddit, "error", err)
		return domain.ErrorEnvelope(fmt.Sprintf("scraping r/%s failed: %v", req.Subreddit, err))
	}

	if len(posts) == 0 {
		return domain.SuccessEnvelope(fmt.Sprintf("no posts found or scraped from r/%s", req.Subreddit), posts)
	}
	return domain.SuccessEnvelope(fmt.Sprintf("scraped %d posts from r/%s", len(posts), req.Subreddit), posts)
}
