// Package media finds a featured image and a related video for a keyword,
// and re-hosts remote images under the local media directory.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/trendpress/trendpress/internal/scrape"
)

type Searcher struct {
	client *scrape.Client
}

func NewSearcher(timeout time.Duration) *Searcher {
	return &Searcher{client: scrape.NewClient(timeout)}
}

// ImageSearch returns the first image-search result URL for keyword, or ""
// when nothing usable was found. Absence is a normal outcome.
func (s *Searcher) ImageSearch(ctx context.Context, keyword string) string {
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(keyword) + "&tbm=isch&hl=ko"
	doc, err := s.client.FetchDocument(ctx, searchURL)
	if err != nil {
		slog.Warn("image search failed", "keyword", keyword, "error", err)
		return ""
	}

	var found string
	doc.Find("img[data-src], img.rg_i, img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("data-src")
		if !ok {
			src, _ = sel.Attr("src")
		}
		if strings.HasPrefix(src, "http") {
			found = src
			return false
		}
		return true
	})

	if found != "" {
		slog.Info("featured image found", "keyword", keyword)
	}
	return found
}

// VideoSearch returns a watch URL for the first YouTube result, or "".
func (s *Searcher) VideoSearch(ctx context.Context, keyword string) string {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(keyword)
	resp, err := s.client.Get(ctx, searchURL)
	if err != nil {
		slog.Warn("video search failed", "keyword", keyword, "error", err)
		return ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return ""
	}

	// Result metadata is embedded as JSON in the page script; the first
	// videoId there is the top result.
	const marker = `"videoId":"`
	idx := strings.Index(string(body), marker)
	if idx < 0 {
		return ""
	}
	rest := string(body)[idx+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end <= 0 {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + rest[:end]
}

// Store downloads remote media into a local directory keyed by
// timestamp+keyword+index.
type Store struct {
	dir    string
	client *scrape.Client
	now    func() time.Time
}

func NewStore(dir string, timeout time.Duration) *Store {
	return &Store{
		dir:    dir,
		client: scrape.NewClient(timeout),
		now:    time.Now,
	}
}

// Download saves the image at rawURL and returns a path relative to the
// posts directory. On any failure the original URL comes back unchanged so
// the document still references something.
func (s *Store) Download(ctx context.Context, rawURL, keyword string, index string) string {
	if !strings.HasPrefix(rawURL, "http") {
		return rawURL
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		slog.Warn("media dir unavailable", "error", err)
		return rawURL
	}

	resp, err := s.client.Get(ctx, rawURL)
	if err != nil {
		slog.Warn("image download failed", "url", rawURL, "error", err)
		return rawURL
	}
	defer resp.Body.Close()

	filename := fmt.Sprintf("%s_%s_%s.jpg", s.now().Format("20060102_150405"), sanitize(keyword), index)
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		slog.Warn("image save failed", "path", path, "error", err)
		return rawURL
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		slog.Warn("image save failed", "path", path, "error", err)
		return rawURL
	}

	slog.Info("image downloaded", "file", filename)
	return "images/" + filename
}

// sanitize keeps keyword-derived filenames filesystem-safe.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
