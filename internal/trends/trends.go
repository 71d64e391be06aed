// Package trends discovers trending search keywords. Sources are brittle,
// rate-limited third parties, so they are arranged as a cascade: each tier
// is tried in priority order and the first non-empty result wins. Results
// are never merged across tiers, and the last tier is a static list, so
// Acquire always returns at least one keyword.
package trends

import (
	"context"
	"log/slog"
)

// Source is one tier of the cascade.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]string, error)
}

type Cascade struct {
	sources []Source
}

func NewCascade(sources ...Source) *Cascade {
	return &Cascade{sources: sources}
}

// Acquire returns the first tier's non-empty keyword list, in that tier's
// ranking order. Errors and empty results fall through without retry.
func (c *Cascade) Acquire(ctx context.Context) []string {
	for _, src := range c.sources {
		keywords, err := src.Fetch(ctx)
		if err != nil {
			slog.Warn("trend source failed", "source", src.Name(), "error", err)
			continue
		}
		if len(keywords) == 0 {
			slog.Warn("trend source returned nothing", "source", src.Name())
			continue
		}
		slog.Info("trend keywords acquired", "source", src.Name(), "count", len(keywords))
		return keywords
	}

	// Unreachable when the cascade ends with StaticSource, but the
	// contract is a non-empty list no matter how it was built.
	slog.Error("all trend sources failed")
	return []string{"테스트 키워드"}
}

// Default builds the production cascade from a sources config.
func Default(cfg *SourcesConfig) *Cascade {
	return NewCascade(
		NewScrapeSource(cfg.TrendingPageURL),
		NewRSSSource(cfg.DailyRSSURL),
		NewWidgetSource(cfg.WidgetURL),
		NewStaticSource(cfg.FallbackKeywords),
	)
}
