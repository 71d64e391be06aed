// Package pipeline drives one keyword through acquisition, selection,
// classification, generation, assembly, persistence and optional
// publishing. A run is single-threaded and run-to-completion; every
// terminal outcome produces exactly one log line and at most one
// notification.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/trendpress/trendpress/internal/assemble"
	"github.com/trendpress/trendpress/internal/classify"
	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/internal/ledger"
	"github.com/trendpress/trendpress/internal/logger"
	"github.com/trendpress/trendpress/internal/metrics"
	"github.com/trendpress/trendpress/internal/news"
	"github.com/trendpress/trendpress/internal/prompt"
	"github.com/trendpress/trendpress/internal/render"
)

// State names the orchestrator's position in a run, for logging.
type State string

const (
	StateIdle       State = "idle"
	StateAcquiring  State = "acquiring-keywords"
	StateSelecting  State = "selecting"
	StateClassify   State = "classifying"
	StatePrompting  State = "building-prompt"
	StateGenerating State = "generating"
	StateAssembling State = "assembling"
	StatePersisting State = "persisting"
	StatePublishing State = "publishing"
	StateComplete   State = "complete"
	StateFailed     State = "failed"
)

// Collaborator slices, defined on the consumer side so tests can fake them.

type KeywordSource interface {
	Acquire(ctx context.Context) []string
}

type Ledger interface {
	Load() ([]string, error)
	MarkUsed(keyword string) error
}

type Classifier interface {
	Classify(ctx context.Context, keyword string) (classify.Category, string)
}

type Generator interface {
	Available() bool
	Generate(ctx context.Context, instruction string) (string, error)
}

type NewsFetcher interface {
	Fetch(ctx context.Context, keyword string, max int) []news.Item
}

type MediaSearcher interface {
	ImageSearch(ctx context.Context, keyword string) string
	VideoSearch(ctx context.Context, keyword string) string
}

type MediaStore interface {
	Download(ctx context.Context, url, keyword, index string) string
}

type DocumentStore interface {
	Save(markdown, keyword string) (string, error)
}

// Publisher pushes a rendered document to its destination. The base
// pipeline depends only on this interface; publishing to a real target and
// not publishing at all are interchangeable implementations.
type Publisher interface {
	Publish(ctx context.Context, title, html string, tags []string) error
}

// NopPublisher skips publishing. Used when no publish target is configured
// or publishing is disabled for a run.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, []string) error { return nil }

type RelatedProvider interface {
	RelatedLinks(ctx context.Context, n int) []assemble.RelatedLink
}

type Notifier interface {
	Notify(message string)
}

// Deps wires the pipeline's collaborators. Source, Ledger and Docs are
// required; everything else degrades to a no-op when nil.
type Deps struct {
	Source     KeywordSource
	Ledger     Ledger
	Classifier Classifier
	Generator  Generator
	News       NewsFetcher
	Media      MediaSearcher
	MediaStore MediaStore
	Docs       DocumentStore
	Publisher  Publisher
	Related    RelatedProvider
	Notifier   Notifier
}

type Pipeline struct {
	deps    Deps
	persona config.Persona
	maxNews int
}

func New(deps Deps, persona config.Persona, maxNews int) *Pipeline {
	if deps.Publisher == nil {
		deps.Publisher = NopPublisher{}
	}
	return &Pipeline{deps: deps, persona: persona, maxNews: maxNews}
}

// Run drives one keyword end to end. It returns an error only for the
// run's own bookkeeping; all collaborator failures are already handled,
// logged and notified inside.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()
	metrics.Global.RunStarted()
	defer func() {
		metrics.Global.RecordRunDuration(time.Since(started))
	}()

	state := StateAcquiring
	candidates := p.deps.Source.Acquire(ctx)

	state = StateSelecting
	used, err := p.deps.Ledger.Load()
	if err != nil {
		return p.fail(state, "", fmt.Errorf("ledger load: %w", err))
	}
	keyword := ledger.Select(candidates, used)
	if keyword == "" {
		metrics.Global.RunNothingToDo()
		logger.Info("run finished: nothing to do", "candidates", len(candidates))
		p.notify("ℹ️ 모든 트렌드 키워드가 이미 사용되었습니다.")
		return nil
	}
	logger.Stage(string(state)).Info("keyword selected", "keyword", keyword)

	state = StateClassify
	category, focus := p.classify(ctx, keyword)
	logger.Stage(string(state)).Info("keyword classified", "keyword", keyword, "category", string(category))

	items := p.fetchNews(ctx, keyword)
	featuredImage, videoEmbed := p.fetchMedia(ctx, keyword)

	state = StatePrompting
	instruction := prompt.Build(keyword, category, focus, items, p.persona)

	state = StateGenerating
	body, placeholder, err := p.generate(ctx, keyword, instruction)
	if err != nil {
		return p.fail(state, keyword, err)
	}
	metrics.Global.DocumentGenerated(placeholder)

	state = StateAssembling
	doc := assemble.Assemble(keyword, body, items, featuredImage, videoEmbed, p.related(ctx))
	markdown := doc.Markdown()

	state = StatePersisting
	path, err := p.deps.Docs.Save(markdown, keyword)
	if err != nil {
		return p.fail(state, keyword, fmt.Errorf("document save: %w", err))
	}
	// The keyword becomes "used" only now, after the durable write: a
	// failed run leaves it eligible for the next one.
	if err := p.deps.Ledger.MarkUsed(keyword); err != nil {
		logger.Warn("ledger update failed, keyword may repeat", "keyword", keyword, "error", err)
	}

	state = StatePublishing
	title := assemble.ExtractTitle(markdown)
	if err := p.publish(ctx, markdown, title, keyword); err != nil {
		metrics.Global.PublishFailed()
		metrics.Global.RunCompleted(keyword)
		logger.Error("run finished: document saved but publish failed",
			"keyword", keyword, "path", path, "error", err)
		p.notify(fmt.Sprintf("⚠️ <b>포스팅 실패</b>\n제목: %s\n오류: %s", title, truncate(err.Error(), 100)))
		return nil
	}

	state = StateComplete
	metrics.Global.RunCompleted(keyword)
	logger.Info("run finished: document created", "keyword", keyword, "title", title, "path", path, "state", string(state))
	p.notify(fmt.Sprintf("✅ <b>블로그 작성 완료</b>\n키워드: %s\n제목: %s", keyword, title))
	return nil
}

// fail is the single path into the Failed terminal state: one log line,
// one notification, ledger untouched.
func (p *Pipeline) fail(state State, keyword string, err error) error {
	metrics.Global.RunFailed(err.Error())
	logger.Error("run failed", "state", string(state), "keyword", keyword, "error", err)
	p.notify(fmt.Sprintf("❌ <b>블로그 작성 실패</b>\n단계: %s\n오류: %s", state, truncate(err.Error(), 100)))
	return fmt.Errorf("%s: %w", state, err)
}

func (p *Pipeline) classify(ctx context.Context, keyword string) (classify.Category, string) {
	if p.deps.Classifier == nil {
		return classify.CategoryOther, classify.DefaultFocus
	}
	return p.deps.Classifier.Classify(ctx, keyword)
}

func (p *Pipeline) fetchNews(ctx context.Context, keyword string) []news.Item {
	if p.deps.News == nil {
		return nil
	}
	items := p.deps.News.Fetch(ctx, keyword, p.maxNews)
	if p.deps.MediaStore == nil {
		return items
	}
	// Re-host remote news images; Download degrades to the original URL.
	for i := range items {
		if items[i].Image != "" {
			items[i].Image = p.deps.MediaStore.Download(ctx, items[i].Image, keyword, fmt.Sprintf("news_%d", i))
		}
	}
	return items
}

func (p *Pipeline) fetchMedia(ctx context.Context, keyword string) (featuredImage, videoEmbed string) {
	if p.deps.Media == nil {
		return "", ""
	}
	featuredImage = p.deps.Media.ImageSearch(ctx, keyword)
	if featuredImage != "" && p.deps.MediaStore != nil {
		featuredImage = p.deps.MediaStore.Download(ctx, featuredImage, keyword, "featured")
	}
	videoEmbed = p.deps.Media.VideoSearch(ctx, keyword)
	return featuredImage, videoEmbed
}

// generate produces the article body. Missing credentials degrade to a
// placeholder document; an actual generator failure fails the run so the
// keyword stays eligible.
func (p *Pipeline) generate(ctx context.Context, keyword, instruction string) (body string, placeholder bool, err error) {
	if p.deps.Generator == nil || !p.deps.Generator.Available() {
		logger.Warn("generator unavailable, writing placeholder document", "keyword", keyword)
		return placeholderBody(keyword), true, nil
	}

	body, err = p.deps.Generator.Generate(ctx, instruction)
	if err != nil {
		return "", false, fmt.Errorf("generation: %w", err)
	}
	return body, false, nil
}

func placeholderBody(keyword string) string {
	return fmt.Sprintf(`---
title: '%s 관련 정보'
categories: [정보]
tags: ['%s']
description: '%s'에 대한 자리 표시 문서
---

# %s

(API 키가 설정되지 않아 실제 콘텐츠를 생성할 수 없습니다)
`, keyword, keyword, keyword, keyword)
}

func (p *Pipeline) related(ctx context.Context) []assemble.RelatedLink {
	if p.deps.Related == nil {
		return nil
	}
	return p.deps.Related.RelatedLinks(ctx, 3)
}

func (p *Pipeline) publish(ctx context.Context, markdown, title, keyword string) error {
	if _, nop := p.deps.Publisher.(NopPublisher); nop {
		logger.Debug("publishing skipped", "keyword", keyword)
		return nil
	}

	tags := assemble.ExtractTags(markdown)
	if len(tags) == 0 {
		tags = []string{keyword}
	}

	html := render.Render(markdown)
	if err := p.deps.Publisher.Publish(ctx, title, html, tags); err != nil {
		return err
	}
	metrics.Global.DocumentPublished()
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func (p *Pipeline) notify(message string) {
	if p.deps.Notifier == nil {
		return
	}
	p.deps.Notifier.Notify(message)
}
