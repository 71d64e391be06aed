// Package assemble turns a generated article body plus fetched media into
// the final markdown document. Assembly is deterministic and never fails:
// every optional section is omitted when its input is missing.
package assemble

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/trendpress/trendpress/internal/news"
)

// Section headings shared with the renderer, which recognizes the news
// section by its literal heading.
const (
	NewsHeading    = "## 📰 관련 뉴스"
	VideoHeading   = "## 🎬 관련 영상"
	RelatedHeading = "## 함께 보면 좋은 글"
)

// summaryLimit caps news summaries in the related-news section.
const summaryLimit = 150

// NoTitle is the placeholder used when neither frontmatter nor a level-1
// heading provides one.
const NoTitle = "제목 없음"

// RelatedLink points at earlier content worth cross-linking.
type RelatedLink struct {
	Title string
	URL   string
}

// Document is the assembled artifact for one keyword.
type Document struct {
	Keyword       string
	Frontmatter   string // inner frontmatter text, no delimiters; "" = none
	Body          string
	FeaturedImage string
	VideoEmbed    string
	News          []news.Item
	Related       []RelatedLink
}

// The generator is told to use exactly "---" but in practice emits en/em
// dashes too, sometimes more than three. Open and close are matched as any
// run of three or more dash-like characters.
var frontmatterRe = regexp.MustCompile(`(?s)^([-–—]{3,})[ \t]*\n(.*?)\n[-–—]{3,}[ \t]*(\n|$)`)

// fenceRe strips a code-fence annotation the generator sometimes wraps the
// whole answer in, despite being told not to.
var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*[ \t]*\n(.*?)\n?```[ \t]*$")

// SplitFrontmatter separates a generated text into frontmatter (without
// delimiters) and body. When no frontmatter block is found, frontmatter is
// "" and the entire text is the body.
func SplitFrontmatter(text string) (frontmatter, body string) {
	trimmed := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		trimmed = strings.TrimSpace(m[1])
	}

	m := frontmatterRe.FindStringSubmatch(trimmed)
	if m == nil {
		return "", trimmed
	}
	return strings.TrimSpace(m[2]), strings.TrimSpace(trimmed[len(m[0]):])
}

// Assemble builds the document. Media references are expected to be already
// localized where possible; missing ones are simply skipped.
func Assemble(keyword, generatedBody string, items []news.Item, featuredImage, videoEmbed string, related []RelatedLink) *Document {
	fm, body := SplitFrontmatter(generatedBody)
	return &Document{
		Keyword:       keyword,
		Frontmatter:   fm,
		Body:          body,
		FeaturedImage: featuredImage,
		VideoEmbed:    videoEmbed,
		News:          items,
		Related:       related,
	}
}

// Markdown renders the document in its fixed section order: frontmatter,
// featured image, body, video, news, related links.
func (d *Document) Markdown() string {
	var b strings.Builder

	if d.Frontmatter != "" {
		b.WriteString("---\n")
		b.WriteString(d.Frontmatter)
		b.WriteString("\n---\n\n")
	}

	// The hero image always sits directly after the frontmatter so
	// downstream consumers find it at a fixed offset.
	if d.FeaturedImage != "" {
		b.WriteString(fmt.Sprintf("![%s](%s)\n\n", d.Keyword, d.FeaturedImage))
	}

	b.WriteString(d.Body)
	b.WriteString("\n\n")

	if d.VideoEmbed != "" {
		b.WriteString(VideoHeading + "\n\n")
		b.WriteString(d.VideoEmbed + "\n\n")
	}

	if len(d.News) > 0 {
		b.WriteString(NewsHeading + "\n\n")
		for _, item := range d.News {
			b.WriteString(fmt.Sprintf("### [%s](%s)\n", item.Title, item.URL))
			b.WriteString(fmt.Sprintf("* **출처**: %s\n", item.Source))
			if item.Image != "" {
				b.WriteString(fmt.Sprintf("![뉴스 이미지](%s)\n", item.Image))
			}
			b.WriteString(fmt.Sprintf("> %s\n\n", truncateSummary(item.Summary)))
		}
	}

	if len(d.Related) > 0 {
		b.WriteString(RelatedHeading + "\n\n")
		for _, link := range d.Related {
			b.WriteString(fmt.Sprintf("* [%s](%s)\n", link.Title, link.URL))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncateSummary(s string) string {
	if utf8.RuneCountInString(s) <= summaryLimit {
		return s
	}
	return string([]rune(s)[:summaryLimit]) + "..."
}

// frontmatterFields is the subset of frontmatter the publisher needs.
type frontmatterFields struct {
	Title       string   `yaml:"title"`
	Tags        []string `yaml:"tags"`
	Categories  []string `yaml:"categories"`
	Description string   `yaml:"description"`
}

func parseFrontmatter(markdown string) *frontmatterFields {
	fm, _ := SplitFrontmatter(markdown)
	if fm == "" {
		return nil
	}

	var fields frontmatterFields
	if err := yaml.Unmarshal([]byte(fm), &fields); err == nil && (fields.Title != "" || len(fields.Tags) > 0) {
		return &fields
	}

	// The generator's frontmatter is not always valid YAML; fall back to
	// line scanning for the title.
	for _, line := range strings.Split(fm, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "title:") {
			title := strings.TrimSpace(strings.TrimPrefix(line, "title:"))
			fields.Title = strings.Trim(title, `"'`)
			return &fields
		}
	}
	return nil
}

// ExtractTitle returns the frontmatter title, else the first level-1
// heading, else the NoTitle placeholder.
func ExtractTitle(markdown string) string {
	if fields := parseFrontmatter(markdown); fields != nil && fields.Title != "" {
		return fields.Title
	}

	_, body := SplitFrontmatter(markdown)
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return NoTitle
}

// ExtractTags returns the frontmatter tag list, nil when absent.
func ExtractTags(markdown string) []string {
	if fields := parseFrontmatter(markdown); fields != nil {
		return fields.Tags
	}
	return nil
}
