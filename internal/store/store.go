// Package store persists assembled documents as markdown files, one per
// keyword and run, named by timestamp plus keyword. Documents are immutable:
// a re-generation writes a new file, never edits an old one.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type DocumentStore struct {
	dir string
	now func() time.Time
}

func New(dir string) *DocumentStore {
	return &DocumentStore{dir: dir, now: time.Now}
}

// StoredDocument is a previously saved post, used as a related-content
// candidate. The link is a file:// reference; the renderer knows those have
// no publishable target.
type StoredDocument struct {
	Path    string
	Title   string
	Link    string
	Content string
}

// Save writes the markdown document and returns its path.
func (s *DocumentStore) Save(markdown, keyword string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create posts dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.md", s.now().Format("20060102_150405"), sanitize(keyword))
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}

// LoadRecent returns up to n stored documents, newest first. The timestamp
// prefix makes lexical filename order chronological.
func (s *DocumentStore) LoadRecent(n int, titleOf func(markdown string) string) ([]StoredDocument, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read posts dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var docs []StoredDocument
	for _, name := range names {
		if n > 0 && len(docs) >= n {
			break
		}
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)
		title := strings.TrimSuffix(name, ".md")
		if titleOf != nil {
			if t := titleOf(content); t != "" {
				title = t
			}
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		docs = append(docs, StoredDocument{
			Path:    path,
			Title:   title,
			Link:    "file://" + abs,
			Content: content,
		})
	}
	return docs, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
