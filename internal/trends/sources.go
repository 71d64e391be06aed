package trends

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourcesConfig lists the endpoints the cascade tiers hit, plus the
// guaranteed-fallback keyword list. Everything is optional; zero values are
// replaced with Korean-region defaults.
type SourcesConfig struct {
	TrendingPageURL  string   `yaml:"trending_page_url"`
	DailyRSSURL      string   `yaml:"daily_rss_url"`
	WidgetURL        string   `yaml:"widget_url"`
	FallbackKeywords []string `yaml:"fallback_keywords"`
}

func defaultSources() *SourcesConfig {
	return &SourcesConfig{
		TrendingPageURL: "https://trends.google.co.kr/trending?geo=KR&hours=4",
		DailyRSSURL:     "https://trends.google.com/trends/trendingsearches/daily/rss?geo=KR",
		WidgetURL:       "https://trends.google.com/trends/api/realtimetrends?hl=ko&tz=-540&cat=all&fi=0&fs=0&geo=KR&ri=50&rs=20&sort=0",
		FallbackKeywords: []string{
			"생성형 AI", "파이썬 자동화", "주말 날씨", "최신 영화 순위", "맛집 추천",
		},
	}
}

// LoadSources reads the sources YAML file. A missing file is not an error;
// the built-in defaults are used instead.
func LoadSources(path string) (*SourcesConfig, error) {
	def := defaultSources()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return nil, fmt.Errorf("failed to read sources config: %w", err)
	}

	var cfg SourcesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources config: %w", err)
	}

	if cfg.TrendingPageURL == "" {
		cfg.TrendingPageURL = def.TrendingPageURL
	}
	if cfg.DailyRSSURL == "" {
		cfg.DailyRSSURL = def.DailyRSSURL
	}
	if cfg.WidgetURL == "" {
		cfg.WidgetURL = def.WidgetURL
	}
	if len(cfg.FallbackKeywords) == 0 {
		cfg.FallbackKeywords = def.FallbackKeywords
	}

	return &cfg, nil
}
