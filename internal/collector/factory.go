package collector

import (
	"fmt"
	"log/slog"

	"snooscrape/internal/config"
	"snooscrape/internal/domain"
)

// NewCollector selects the collector implementation for the configured
// mode.
func NewCollector(cfg *config.Config, logger *slog.Logger) (domain.Collector, error) {
	switch cfg.Reddit.CollectorMode {
	case config.ModeAPI:
		return NewRedditClient(cfg, logger)
	case config.ModeMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use %q or %q)",
			cfg.Reddit.CollectorMode, config.ModeAPI, config.ModeMock)
	}
}
