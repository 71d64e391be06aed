package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWP is a minimal in-memory WordPress REST API.
type fakeWP struct {
	categories map[string]int
	tags       map[string]int
	nextID     int
	posts      []map[string]any
	authSeen   string
}

func newFakeWP() *fakeWP {
	return &fakeWP{
		categories: map[string]int{},
		tags:       map[string]int{},
		nextID:     100,
	}
}

func (f *fakeWP) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/categories", func(w http.ResponseWriter, r *http.Request) {
		f.handleTerms(w, r, f.categories)
	})
	mux.HandleFunc("/wp-json/wp/v2/tags", func(w http.ResponseWriter, r *http.Request) {
		f.handleTerms(w, r, f.tags)
	})
	mux.HandleFunc("/wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		f.authSeen = r.Header.Get("Authorization")
		if r.Method == http.MethodPost {
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			f.posts = append(f.posts, payload)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"link": "https://blog.example/post-1"})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"title": map[string]string{"rendered": "최근 <b>글</b>"}, "link": "https://blog.example/recent"},
		})
	})
	return mux
}

func (f *fakeWP) handleTerms(w http.ResponseWriter, r *http.Request, terms map[string]int) {
	f.authSeen = r.Header.Get("Authorization")
	if r.Method == http.MethodPost {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		f.nextID++
		terms[body["name"]] = f.nextID
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": f.nextID, "name": body["name"]})
		return
	}

	search := r.URL.Query().Get("search")
	var out []map[string]any
	for name, id := range terms {
		if strings.Contains(name, search) {
			out = append(out, map[string]any{"id": id, "name": name})
		}
	}
	json.NewEncoder(w).Encode(out)
}

func newTestClient(t *testing.T) (*Client, *fakeWP) {
	t.Helper()
	wp := newFakeWP()
	srv := httptest.NewServer(wp.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "admin", "app-password", "이슈트래킹", time.Second), wp
}

func TestFindOrCreateTermCreatesWhenMissing(t *testing.T) {
	c, wp := newTestClient(t)

	id, err := c.FindOrCreateTag(context.Background(), "새 태그")
	require.NoError(t, err)

	assert.Equal(t, wp.tags["새 태그"], id)
}

func TestFindOrCreateTermReusesExisting(t *testing.T) {
	c, wp := newTestClient(t)
	wp.tags["기존 태그"] = 42

	id, err := c.FindOrCreateTag(context.Background(), "기존 태그")
	require.NoError(t, err)

	assert.Equal(t, 42, id)
	assert.Len(t, wp.tags, 1, "no duplicate term created")
}

func TestFindOrCreateTermExactNameMatchOnly(t *testing.T) {
	c, wp := newTestClient(t)
	wp.tags["태그 확장판"] = 7

	id, err := c.FindOrCreateTag(context.Background(), "태그")
	require.NoError(t, err)

	assert.NotEqual(t, 7, id, "a substring hit is not a match")
	assert.Contains(t, wp.tags, "태그")
}

func TestPublishCreatesPost(t *testing.T) {
	c, wp := newTestClient(t)

	err := c.Publish(context.Background(), "글 제목", "<p>본문</p>", []string{"태그1", "태그2"})
	require.NoError(t, err)

	require.Len(t, wp.posts, 1)
	created := wp.posts[0]
	assert.Equal(t, "글 제목", created["title"])
	assert.Equal(t, "publish", created["status"])

	content := created["content"].(string)
	assert.Contains(t, content, "<p>본문</p>")
	assert.Contains(t, content, "<style>", "the shared style block precedes the article")

	assert.Len(t, created["tags"], 2)
	assert.Len(t, created["categories"], 1)
	assert.Contains(t, wp.categories, "이슈트래킹")
}

func TestPublishSendsBasicAuth(t *testing.T) {
	c, wp := newTestClient(t)

	require.NoError(t, c.Publish(context.Background(), "제목", "<p>x</p>", nil))

	assert.True(t, strings.HasPrefix(wp.authSeen, "Basic "))
}

func TestPublishDegradesFailedTermResolution(t *testing.T) {
	var posts []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/posts") && r.Method == http.MethodPost {
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			posts = append(posts, payload)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"link": "https://blog.example/p"})
			return
		}
		// Every taxonomy call fails.
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "pw", "이슈트래킹", time.Second)

	err := c.Publish(context.Background(), "제목", "<p>본문</p>", []string{"태그"})
	require.NoError(t, err, "taxonomy failures degrade, they do not block the publish")

	require.Len(t, posts, 1)
	assert.Len(t, posts[0]["tags"], 0)
	assert.Len(t, posts[0]["categories"], 0)
}

func TestRecentPostsStripsMarkup(t *testing.T) {
	c, _ := newTestClient(t)

	recent, err := c.RecentPosts(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, recent, 1)
	assert.Equal(t, "최근 글", recent[0].Title)
	assert.Equal(t, "https://blog.example/recent", recent[0].URL)
}

func TestPublishErrorOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "pw", "이슈트래킹", time.Second)

	assert.Error(t, c.Publish(context.Background(), "제목", "<p>x</p>", nil))
}
