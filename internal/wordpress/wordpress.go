// Package wordpress publishes rendered documents to a WordPress site over
// its REST API, authenticated with an application password. Categories and
// tags are resolved find-or-create by name, so repeated publishes are
// idempotent with respect to taxonomy.
package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/trendpress/trendpress/internal/retry"
)

type Client struct {
	baseURL  string
	username string
	password string
	category string
	http     *http.Client
}

func NewClient(baseURL, username, appPassword, category string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: appPassword,
		category: category,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) authHeader() string {
	token := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.password))
	return "Basic " + token
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("wordpress API error: status %d: %s", resp.StatusCode, string(payload))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

type term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c *Client) findOrCreateTerm(ctx context.Context, kind, name string) (int, error) {
	var terms []term
	search := fmt.Sprintf("/wp-json/wp/v2/%s?search=%s", kind, url.QueryEscape(name))
	if err := c.do(ctx, http.MethodGet, search, nil, &terms); err != nil {
		return 0, err
	}
	for _, t := range terms {
		if t.Name == name {
			return t.ID, nil
		}
	}

	var created term
	if err := c.do(ctx, http.MethodPost, "/wp-json/wp/v2/"+kind, map[string]string{"name": name}, &created); err != nil {
		return 0, err
	}
	slog.Info("wordpress term created", "kind", kind, "name", name, "id", created.ID)
	return created.ID, nil
}

// FindOrCreateCategory resolves a category ID by name, creating it if absent.
func (c *Client) FindOrCreateCategory(ctx context.Context, name string) (int, error) {
	return c.findOrCreateTerm(ctx, "categories", name)
}

// FindOrCreateTag resolves a tag ID by name, creating it if absent.
func (c *Client) FindOrCreateTag(ctx context.Context, name string) (int, error) {
	return c.findOrCreateTerm(ctx, "tags", name)
}

type post struct {
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Link string `json:"link"`
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// RecentPost is a published post usable as a related-content link.
type RecentPost struct {
	Title string
	URL   string
}

// RecentPosts fetches the n most recent published posts.
func (c *Client) RecentPosts(ctx context.Context, n int) ([]RecentPost, error) {
	var posts []post
	path := fmt.Sprintf("/wp-json/wp/v2/posts?per_page=%d&status=publish", n)
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}

	var recent []RecentPost
	for _, p := range posts {
		title := htmlTagRe.ReplaceAllString(p.Title.Rendered, "")
		if p.Link != "" {
			recent = append(recent, RecentPost{Title: title, URL: p.Link})
		}
	}
	return recent, nil
}

// Publish posts the rendered HTML. Tag and category resolution failures are
// degraded to an untagged post rather than failing the publish.
func (c *Client) Publish(ctx context.Context, title, html string, tags []string) error {
	categoryIDs := []int{}
	if id, err := c.FindOrCreateCategory(ctx, c.category); err != nil {
		slog.Warn("category resolution failed", "name", c.category, "error", err)
	} else {
		categoryIDs = append(categoryIDs, id)
	}

	tagIDs := []int{}
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		id, err := c.FindOrCreateTag(ctx, tag)
		if err != nil {
			slog.Warn("tag resolution failed", "name", tag, "error", err)
			continue
		}
		tagIDs = append(tagIDs, id)
	}

	payload := map[string]any{
		"title":      title,
		"content":    styleBlock + html,
		"status":     "publish",
		"categories": categoryIDs,
		"tags":       tagIDs,
	}

	var created struct {
		Link string `json:"link"`
	}
	err := retry.Do(ctx, retry.Config{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}, func() error {
		return c.do(ctx, http.MethodPost, "/wp-json/wp/v2/posts", payload, &created)
	})
	if err != nil {
		return err
	}

	slog.Info("wordpress post published", "title", title, "link", created.Link)
	return nil
}
