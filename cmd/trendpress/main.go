package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/trendpress/trendpress/internal/assemble"
	"github.com/trendpress/trendpress/internal/classify"
	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/internal/gemini"
	"github.com/trendpress/trendpress/internal/ledger"
	"github.com/trendpress/trendpress/internal/logger"
	"github.com/trendpress/trendpress/internal/media"
	"github.com/trendpress/trendpress/internal/metrics"
	"github.com/trendpress/trendpress/internal/news"
	"github.com/trendpress/trendpress/internal/pipeline"
	"github.com/trendpress/trendpress/internal/ratelimit"
	"github.com/trendpress/trendpress/internal/store"
	"github.com/trendpress/trendpress/internal/telegram"
	"github.com/trendpress/trendpress/internal/trends"
	"github.com/trendpress/trendpress/internal/wordpress"
)

func main() {
	doPost := flag.Bool("post", false, "publish generated documents to WordPress")
	runOnce := flag.Bool("once", false, "run one pipeline pass and exit")
	flag.Parse()

	// Local development keeps credentials in a .env file; absence is fine.
	_ = godotenv.Load()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := buildPipeline(ctx, cfg, *doPost)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	defer cleanup()

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	// One immediate pass, then the schedule (unless -once).
	if err := p.Run(ctx); err != nil {
		logger.Error("initial run failed", "error", err)
	}
	if *runOnce {
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.CronSchedule, func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("scheduled run failed", "error", err)
		}
	}); err != nil {
		log.Fatalf("invalid CRON_SCHEDULE %q: %v", cfg.CronSchedule, err)
	}
	c.Start()
	logger.Info("scheduler started", "schedule", cfg.CronSchedule, "publish", *doPost)

	<-ctx.Done()
	c.Stop()
	logger.Info("shutting down")
}

func buildPipeline(ctx context.Context, cfg *config.Config, doPost bool) (*pipeline.Pipeline, func(), error) {
	sources, err := trends.LoadSources(cfg.SourcesPath)
	if err != nil {
		return nil, nil, err
	}

	limiter := ratelimit.New(cfg.MaxGeminiRequests)
	gen, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, limiter)
	if err != nil {
		return nil, nil, err
	}
	if !gen.Available() {
		logger.Warn("no Gemini API key set, documents will be placeholders")
	}

	docs := store.New(cfg.PostsDir)

	deps := pipeline.Deps{
		Source:     trends.Default(sources),
		Ledger:     ledger.New(cfg.LedgerPath),
		Classifier: classify.New(gen),
		Generator:  gen,
		News:       news.NewFetcher(cfg.RequestTimeout, cfg.NewsCacheTTL),
		Media:      media.NewSearcher(cfg.RequestTimeout),
		MediaStore: media.NewStore(cfg.MediaDir, cfg.RequestTimeout),
		Docs:       docs,
		Related:    pipeline.LocalRelated{Store: docs},
	}

	if cfg.NotifyEnabled() {
		deps.Notifier = telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	}

	if doPost && cfg.PublishEnabled() {
		wp := wordpress.NewClient(cfg.WordPressURL, cfg.WordPressUsername,
			cfg.WordPressAppPassword, cfg.WordPressCategory, cfg.RequestTimeout)
		deps.Publisher = wp
		deps.Related = wpRelated{client: wp}
	} else if doPost {
		logger.Warn("publishing requested but WordPress credentials are missing, saving locally only")
	}

	return pipeline.New(deps, cfg.Persona, cfg.MaxNews), gen.Close, nil
}

// wpRelated prefers published posts over local files as related links.
type wpRelated struct {
	client *wordpress.Client
}

func (r wpRelated) RelatedLinks(ctx context.Context, n int) []assemble.RelatedLink {
	posts, err := r.client.RecentPosts(ctx, n)
	if err != nil {
		logger.Warn("recent posts lookup failed", "error", err)
		return nil
	}
	links := make([]assemble.RelatedLink, 0, len(posts))
	for _, p := range posts {
		links = append(links, assemble.RelatedLink{Title: p.Title, URL: p.URL})
	}
	return links
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	log.Printf("Starting monitoring server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Monitoring server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]any{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics.Global.GetStats())
}
