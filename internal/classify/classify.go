// Package classify maps a trending keyword onto one of a fixed set of
// content categories. The category drives which article outline the prompt
// builder uses, so an unclassifiable keyword must still land somewhere:
// every failure path falls back to CategoryOther.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Category is a closed enumeration of content types.
type Category string

const (
	CategorySportsFixture     Category = "sports-fixture"
	CategorySportsGeneral     Category = "sports-general"
	CategorySingleStock       Category = "single-stock"
	CategoryMacroEconomy      Category = "macro-economy"
	CategorySocialControversy Category = "social-controversy"
	CategorySocialIncident    Category = "social-incident"
	CategoryPolitics          Category = "politics"
	CategoryCelebrityNews     Category = "celebrity-news"
	CategoryMediaReview       Category = "media-review"
	CategoryDeviceReview      Category = "device-review"
	CategoryTechTrend         Category = "tech-trend"
	CategoryHealth            Category = "health"
	CategoryLifestyle         Category = "lifestyle"
	CategoryOther             Category = "other"
)

// DefaultFocus is the focus summary used whenever classification cannot
// produce one.
const DefaultFocus = "general information delivery"

type Info struct {
	DisplayName string
	Focus       string
}

// Catalog describes every known category. Order here is the order the
// categories are listed in the classification instruction.
var Catalog = map[Category]Info{
	CategorySportsFixture:     {"스포츠 경기", "upcoming or finished match: schedule, teams, result"},
	CategorySportsGeneral:     {"스포츠 일반", "athlete or club news outside a single fixture"},
	CategorySingleStock:       {"개별 종목", "one listed company's price move and its trigger"},
	CategoryMacroEconomy:      {"거시 경제", "rates, currencies, indices, policy-level economics"},
	CategorySocialControversy: {"사회 논란", "public dispute with two or more sides"},
	CategorySocialIncident:    {"사회 사건", "accident, crime or disaster affecting the public"},
	CategoryPolitics:          {"정치", "elections, parties, government decisions"},
	CategoryCelebrityNews:     {"연예 뉴스", "entertainer's activity, relationship or scandal"},
	CategoryMediaReview:       {"작품 리뷰", "movie, drama, show or album worth reviewing"},
	CategoryDeviceReview:      {"기기 리뷰", "gadget or hardware product evaluation"},
	CategoryTechTrend:         {"기술 트렌드", "technology shift broader than one product"},
	CategoryHealth:            {"건강", "disease, treatment, wellness topic"},
	CategoryLifestyle:         {"라이프스타일", "food, travel, weather, everyday interest"},
	CategoryOther:             {"일반 정보", DefaultFocus},
}

// order keeps the instruction's category listing deterministic.
var order = []Category{
	CategorySportsFixture, CategorySportsGeneral, CategorySingleStock,
	CategoryMacroEconomy, CategorySocialControversy, CategorySocialIncident,
	CategoryPolitics, CategoryCelebrityNews, CategoryMediaReview,
	CategoryDeviceReview, CategoryTechTrend, CategoryHealth,
	CategoryLifestyle, CategoryOther,
}

// Known reports whether tag names one of the fixed categories.
func Known(tag string) bool {
	_, ok := Catalog[Category(tag)]
	return ok
}

// Generator is the slice of the content generator the classifier needs.
type Generator interface {
	Generate(ctx context.Context, instruction string) (string, error)
}

type Classifier struct {
	gen Generator
}

func New(gen Generator) *Classifier {
	return &Classifier{gen: gen}
}

// Classify returns the category and a one-line focus summary for keyword.
// It never fails: any generator error or unparseable answer yields
// CategoryOther with DefaultFocus.
func (c *Classifier) Classify(ctx context.Context, keyword string) (Category, string) {
	resp, err := c.gen.Generate(ctx, buildInstruction(keyword))
	if err != nil {
		slog.Warn("classification failed, using catch-all category", "keyword", keyword, "error", err)
		return CategoryOther, DefaultFocus
	}

	cat, focus := parseResponse(resp)
	if !Known(string(cat)) {
		slog.Warn("classifier returned unknown category", "keyword", keyword, "category", string(cat))
		return CategoryOther, DefaultFocus
	}
	if focus == "" {
		focus = DefaultFocus
	}
	return cat, focus
}

func buildInstruction(keyword string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("'%s'는 지금 검색량이 급등한 키워드다.\n", keyword))
	b.WriteString("아래 카테고리 태그 중 정확히 하나를 골라라:\n\n")
	for _, cat := range order {
		info := Catalog[cat]
		b.WriteString(fmt.Sprintf("- %s (%s): %s\n", cat, info.DisplayName, info.Focus))
	}
	b.WriteString("\n답변은 정확히 두 줄로 작성하라:\n")
	b.WriteString("category: <태그>\n")
	b.WriteString("focus: <이 키워드를 다룰 때 글의 초점 한 줄>\n")
	return b.String()
}

// parseResponse reads the "category:" and "focus:" lines out of the
// generator's answer. Extra prose around them is tolerated.
func parseResponse(resp string) (Category, string) {
	var cat Category
	var focus string

	for _, raw := range strings.Split(resp, "\n") {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "category:"):
			value := strings.TrimSpace(line[len("category:"):])
			cat = Category(strings.ToLower(strings.Trim(value, "`'\" ")))
		case strings.HasPrefix(lower, "focus:"):
			focus = strings.TrimSpace(line[len("focus:"):])
		}
	}

	return cat, focus
}
