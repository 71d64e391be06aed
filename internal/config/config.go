// Package config holds all runtime settings, read once at process start.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Persona selects the writing voice used by the prompt builder.
type Persona string

const (
	PersonaNeutral    Persona = "neutral"
	PersonaAnalytical Persona = "analytical"
	PersonaFriendly   Persona = "friendly"
)

type Config struct {
	// Generator settings
	GeminiAPIKey      string
	GeminiModel       string
	MaxGeminiRequests int // daily request budget (0 = unlimited)

	// Writing settings
	Persona    Persona
	MaxNews    int // news items fetched per keyword
	RegionCode string

	// WordPress settings (empty = local save only)
	WordPressURL         string
	WordPressUsername    string
	WordPressAppPassword string
	WordPressCategory    string

	// Telegram notification settings (empty = notifications off)
	TelegramToken  string
	TelegramChatID string

	// File layout
	LedgerPath  string
	PostsDir    string
	MediaDir    string
	SourcesPath string

	// Scheduling
	CronSchedule string

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	NewsCacheTTL   time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		GeminiModel:       "gemini-1.5-flash",
		MaxGeminiRequests: 50,
		Persona:           PersonaNeutral,
		MaxNews:           3,
		RegionCode:        "KR",
		WordPressCategory: "이슈트래킹",
		LedgerPath:        "used_keywords.json",
		PostsDir:          "blog_posts",
		MediaDir:          "blog_posts/images",
		SourcesPath:       "configs/sources.yaml",
		CronSchedule:      "0 8,12,16,20 * * *",
		RequestTimeout:    30 * time.Second,
		NewsCacheTTL:      2 * time.Hour,
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		// Some deployments set the key under the generic Google name.
		cfg.GeminiAPIKey = os.Getenv("GOOGLE_API_KEY")
	}
	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)
	cfg.MaxGeminiRequests = getEnvIntOrDefault("MAX_GEMINI_REQUESTS", cfg.MaxGeminiRequests)

	if p := os.Getenv("WRITER_PERSONA"); p != "" {
		cfg.Persona = Persona(p)
	}
	cfg.MaxNews = getEnvIntOrDefault("MAX_NEWS_PER_KEYWORD", cfg.MaxNews)
	cfg.RegionCode = getEnvOrDefault("TRENDS_REGION", cfg.RegionCode)

	cfg.WordPressURL = os.Getenv("WORDPRESS_URL")
	cfg.WordPressUsername = os.Getenv("WORDPRESS_USERNAME")
	cfg.WordPressAppPassword = os.Getenv("WORDPRESS_APP_PASSWORD")
	cfg.WordPressCategory = getEnvOrDefault("WORDPRESS_CATEGORY", cfg.WordPressCategory)

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	cfg.LedgerPath = getEnvOrDefault("LEDGER_PATH", cfg.LedgerPath)
	cfg.PostsDir = getEnvOrDefault("POSTS_DIR", cfg.PostsDir)
	cfg.MediaDir = getEnvOrDefault("MEDIA_DIR", cfg.MediaDir)
	cfg.SourcesPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesPath)
	cfg.CronSchedule = getEnvOrDefault("CRON_SCHEDULE", cfg.CronSchedule)

	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("NEWS_CACHE_TTL_HOURS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.NewsCacheTTL = time.Duration(val) * time.Hour
		}
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks settings that cannot be degraded at runtime. Missing
// credentials are deliberately not errors: without a Gemini key the pipeline
// produces placeholder documents, without WordPress settings it saves
// locally, without Telegram settings notifications are skipped.
func (c *Config) Validate() error {
	switch c.Persona {
	case PersonaNeutral, PersonaAnalytical, PersonaFriendly:
	default:
		return fmt.Errorf("WRITER_PERSONA must be one of neutral, analytical, friendly (got %q)", c.Persona)
	}
	if c.MaxNews < 0 {
		return fmt.Errorf("MAX_NEWS_PER_KEYWORD must not be negative")
	}
	if c.LedgerPath == "" || c.PostsDir == "" {
		return fmt.Errorf("LEDGER_PATH and POSTS_DIR must not be empty")
	}
	return nil
}

// PublishEnabled reports whether WordPress credentials are present.
func (c *Config) PublishEnabled() bool {
	return c.WordPressURL != "" && c.WordPressUsername != "" && c.WordPressAppPassword != ""
}

// NotifyEnabled reports whether Telegram credentials are present.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}
