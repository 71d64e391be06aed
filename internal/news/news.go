// Package news fetches supporting articles for a keyword from the Google
// News search results page. The items are evidence for the prompt builder
// and raw material for the document's related-news section.
package news

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/trendpress/trendpress/internal/cache"
	"github.com/trendpress/trendpress/internal/scrape"
)

// Item is one fetched news result. Immutable once fetched.
type Item struct {
	Title   string
	URL     string
	Image   string // optional
	Summary string
	Source  string
}

type Fetcher struct {
	client   *scrape.Client
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewFetcher(timeout, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		client:   scrape.NewClient(timeout),
		cache:    cache.New(),
		cacheTTL: cacheTTL,
	}
}

// Fetch returns up to max news items for keyword. Absence of news is a
// normal outcome, never an error: any failure returns nil.
func (f *Fetcher) Fetch(ctx context.Context, keyword string, max int) []Item {
	if max <= 0 {
		return nil
	}

	f.cache.Cleanup()

	key := cache.Key("news", keyword)
	if cached, ok := f.cache.Get(key); ok {
		items := cached.([]Item)
		if len(items) > max {
			items = items[:max]
		}
		return items
	}

	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(keyword) + "&tbm=nws&hl=ko"
	doc, err := f.client.FetchDocument(ctx, searchURL)
	if err != nil {
		slog.Warn("news fetch failed", "keyword", keyword, "error", err)
		return nil
	}

	items := extractItems(doc, max)
	slog.Info("news items fetched", "keyword", keyword, "count", len(items))

	if len(items) > 0 {
		f.cache.Set(key, items, f.cacheTTL)
	}
	return items
}

func extractItems(doc *goquery.Document, max int) []Item {
	var items []Item

	doc.Find("div.SoaBEf, div.WlydOe").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		item := extractItem(sel)
		if item.Title == "" || item.URL == "" {
			return true
		}
		items = append(items, item)
		return len(items) < max
	})

	return items
}

func extractItem(sel *goquery.Selection) Item {
	var item Item

	item.Title = strings.TrimSpace(sel.Find(`div[role="heading"]`).First().Text())
	item.URL, _ = sel.Find("a").First().Attr("href")
	item.Image, _ = sel.Find("img").First().Attr("src")
	item.Summary = strings.TrimSpace(sel.Find("div.GI74Re").First().Text())

	// Source label moves between class names; fall back to the link's host.
	for _, selector := range []string{"div.CEMjEf span", ".MgUUmf.NUnG9d span"} {
		if src := strings.TrimSpace(sel.Find(selector).First().Text()); src != "" {
			item.Source = src
			break
		}
	}
	if item.Source == "" {
		if u, err := url.Parse(item.URL); err == nil && u.Hostname() != "" {
			item.Source = strings.TrimPrefix(u.Hostname(), "www.")
		}
	}
	if item.Source == "" {
		item.Source = "Unknown Source"
	}

	if item.Summary == "" {
		item.Summary = item.Title
	}
	return item
}
