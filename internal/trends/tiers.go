package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/trendpress/trendpress/internal/scrape"
)

const tierTimeout = 30 * time.Second

// ScrapeSource reads keywords straight off the trending page's result table.
// Tier 1: freshest data, most likely to break when the markup changes.
type ScrapeSource struct {
	url    string
	client *scrape.Client
}

func NewScrapeSource(url string) *ScrapeSource {
	return &ScrapeSource{
		url:    url,
		client: scrape.NewClient(tierTimeout),
	}
}

func (s *ScrapeSource) Name() string { return "trending-page" }

func (s *ScrapeSource) Fetch(ctx context.Context) ([]string, error) {
	doc, err := s.client.FetchDocument(ctx, s.url)
	if err != nil {
		return nil, err
	}

	var keywords []string
	doc.Find(`tr[role="row"]`).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		text := strings.TrimSpace(cells.Eq(1).Find("div").First().Text())
		if text != "" {
			keywords = append(keywords, text)
		}
	})

	return keywords, nil
}

// RSSSource parses the daily trending searches feed. Tier 2.
type RSSSource struct {
	url    string
	parser *gofeed.Parser
}

func NewRSSSource(url string) *RSSSource {
	return &RSSSource{
		url:    url,
		parser: gofeed.NewParser(),
	}
}

func (s *RSSSource) Name() string { return "daily-rss" }

func (s *RSSSource) Fetch(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, tierTimeout)
	defer cancel()

	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("error parsing trends RSS: %w", err)
	}

	var keywords []string
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title != "" {
			keywords = append(keywords, title)
		}
	}
	return keywords, nil
}

// WidgetSource hits the realtime trends JSON endpoint. Tier 3. The endpoint
// guards its JSON with a ")]}'" prefix that must be stripped before decoding.
type WidgetSource struct {
	url    string
	client *scrape.Client
}

func NewWidgetSource(url string) *WidgetSource {
	return &WidgetSource{
		url:    url,
		client: scrape.NewClient(tierTimeout),
	}
}

func (s *WidgetSource) Name() string { return "realtime-widget" }

type widgetResponse struct {
	StorySummaries struct {
		TrendingStories []struct {
			Title       string   `json:"title"`
			EntityNames []string `json:"entityNames"`
		} `json:"trendingStories"`
	} `json:"storySummaries"`
}

func (s *WidgetSource) Fetch(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading widget response: %w", err)
	}

	payload := string(raw)
	if idx := strings.IndexByte(payload, '{'); idx > 0 {
		payload = payload[idx:]
	}

	var decoded widgetResponse
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("error decoding widget response: %w", err)
	}

	var keywords []string
	for _, story := range decoded.StorySummaries.TrendingStories {
		if len(story.EntityNames) > 0 {
			keywords = append(keywords, story.EntityNames[0])
			continue
		}
		if t := strings.TrimSpace(story.Title); t != "" {
			keywords = append(keywords, t)
		}
	}
	return keywords, nil
}

// StaticSource is the terminal tier: a fixed list that always succeeds.
type StaticSource struct {
	keywords []string
}

func NewStaticSource(keywords []string) *StaticSource {
	if len(keywords) == 0 {
		keywords = defaultSources().FallbackKeywords
	}
	return &StaticSource{keywords: keywords}
}

func (s *StaticSource) Name() string { return "static-fallback" }

func (s *StaticSource) Fetch(_ context.Context) ([]string, error) {
	out := make([]string, len(s.keywords))
	copy(out, s.keywords)
	return out, nil
}
