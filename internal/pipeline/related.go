package pipeline

import (
	"context"

	"github.com/trendpress/trendpress/internal/assemble"
	"github.com/trendpress/trendpress/internal/logger"
	"github.com/trendpress/trendpress/internal/store"
)

// LocalRelated offers previously saved local documents as related links.
// Their file:// URLs have no publishable target; the renderer turns them
// into emphasized text instead of anchors.
type LocalRelated struct {
	Store *store.DocumentStore
}

func (r LocalRelated) RelatedLinks(_ context.Context, n int) []assemble.RelatedLink {
	docs, err := r.Store.LoadRecent(n, assemble.ExtractTitle)
	if err != nil {
		logger.Warn("related content lookup failed", "error", err)
		return nil
	}

	links := make([]assemble.RelatedLink, 0, len(docs))
	for _, doc := range docs {
		links = append(links, assemble.RelatedLink{Title: doc.Title, URL: doc.Link})
	}
	return links
}
