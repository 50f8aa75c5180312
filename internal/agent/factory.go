package agent

import (
	"context"
	"log/slog"

	"snooscrape/internal/collector"
	"snooscrape/internal/config"
	"snooscrape/internal/storage"
	"snooscrape/internal/tools"
)

const agentInstruction = "You are a Reddit scraping assistant. " +
	"When asked to scrape a subreddit, use the reddit_subreddit_scraper tool " +
	"with the requested subreddit, time filter and post limit. " +
	"After the tool finishes, report the outcome to the user in one or two sentences: " +
	"how many posts were scraped on success, or what went wrong on failure. " +
	"Do not invent data; only describe what the tool returned."

// BuildDeps wires the production dependency graph: collector, tool
// registry, Gemini client, runner, sessions and snapshot writer.
func BuildDeps(cfg *config.Config, logger *slog.Logger) DepsBuilder {
	return func(ctx context.Context) (*Deps, error) {
		coll, err := collector.NewCollector(cfg, logger)
		if err != nil {
			return nil, err
		}

		registry := tools.NewRegistry()
		if err := registry.Register(tools.NewScraperTool(coll, logger)); err != nil {
			return nil, err
		}

		client, err := NewGeminiClient(ctx, cfg, registry.GeminiTools(), agentInstruction)
		if err != nil {
			return nil, err
		}

		return &Deps{
			Runtime:  NewRunner(client, registry, logger),
			Sessions: NewSessionService(),
			Writer:   storage.NewWriter(cfg.Output.Dir),
		}, nil
	}
}
