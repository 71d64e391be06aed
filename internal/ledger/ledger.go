// Package ledger persists the keywords that already have a generated
// document. The file is the single source of truth for "already written
// about": a keyword goes in only after its document was durably saved.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Ledger is a JSON file holding an ordered, duplicate-free keyword list.
// All read-modify-write access goes through an internal mutex; concurrent
// runs inside one process cannot double-mark a keyword.
type Ledger struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Load returns the stored keyword list. A missing file means an empty
// ledger, not an error.
func (l *Ledger) Load() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Ledger) load() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(data) == 0 {
		return []string{}, nil
	}

	var keywords []string
	if err := json.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse ledger: %w", err)
	}
	return keywords, nil
}

// Save replaces the whole list. The write goes through a temp file and a
// rename so a crash cannot leave a truncated ledger behind.
func (l *Ledger) Save(keywords []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(keywords)
}

func (l *Ledger) save(keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.MarshalIndent(keywords, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create ledger dir: %w", err)
		}
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}

// MarkUsed appends keyword to the ledger if it is not already present.
// Load, append and save happen under one lock.
func (l *Ledger) MarkUsed(keyword string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	keywords, err := l.load()
	if err != nil {
		return err
	}
	for _, k := range keywords {
		if k == keyword {
			return nil
		}
	}
	return l.save(append(keywords, keyword))
}

// Select returns the first candidate not present in used, preserving the
// candidates' ranking so the most trending unwritten keyword wins. It
// returns "" when every candidate is already used.
func Select(candidates, used []string) string {
	usedSet := make(map[string]struct{}, len(used))
	for _, k := range used {
		usedSet[k] = struct{}{}
	}
	for _, candidate := range candidates {
		if _, ok := usedSet[candidate]; !ok {
			return candidate
		}
	}
	return ""
}
