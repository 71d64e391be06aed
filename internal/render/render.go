// Package render converts a document's markdown into HTML for publishing.
// It is not a CommonMark implementation: it handles exactly the subset the
// assembler and generator produce, as a fixed pipeline of named stages.
// Each stage takes the whole text and returns it transformed; later stages
// see earlier stages' output. Unmatched syntax passes through as literal
// text and nothing here ever fails.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

type stage func(string) string

var pipeline = []stage{
	stripFrontmatter,
	unwrapDocumentFence,
	convertCodeBlocks,
	convertNewsSection,
	convertImages,
	convertLinks,
	convertHeadings,
	convertInline,
	convertListItems,
	convertBlockquotes,
	wrapBlocks,
}

// Render runs the full stage pipeline over markdown.
func Render(markdown string) string {
	out := strings.TrimSpace(markdown)
	for _, st := range pipeline {
		out = st(out)
	}
	return out
}

// stripFrontmatter removes a leading metadata block. Delimiters are any run
// of three or more dash-like characters, matching the assembler's tolerance.
var frontmatterRe = regexp.MustCompile(`(?s)^[-–—]{3,}[ \t]*\n.*?\n[-–—]{3,}[ \t]*(\n|$)`)

func stripFrontmatter(s string) string {
	return strings.TrimSpace(frontmatterRe.ReplaceAllString(s, ""))
}

// unwrapDocumentFence removes a code fence wrapped around the entire
// document, a generator artifact rather than meaningful code.
var documentFenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*[ \t]*\n(.*?)\n?```[ \t]*$")

func unwrapDocumentFence(s string) string {
	if m := documentFenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// convertCodeBlocks turns fenced code into escaped <pre><code> before any
// inline stage can mangle the contents.
var codeBlockRes = []*regexp.Regexp{
	regexp.MustCompile("(?s)```(\\w+)?[ \t]*\n(.*?)```"),
	regexp.MustCompile("(?s)~~~(\\w+)?[ \t]*\n(.*?)~~~"),
}

func convertCodeBlocks(s string) string {
	for _, re := range codeBlockRes {
		s = re.ReplaceAllStringFunc(s, func(block string) string {
			m := re.FindStringSubmatch(block)
			lang := m[1]
			code := html.EscapeString(m[2])
			return fmt.Sprintf(`<pre><code class="language-%s">%s</code></pre>`, lang, code)
		})
	}
	return s
}

// News section parsing. The section is identified by its literal heading;
// each item chunk is parsed independently and skipped on failure so one
// malformed item cannot abort the render. Content after the section (the
// related-links block, typically) is preserved.
const newsHeading = "## 📰 관련 뉴스"

var (
	newsTitleURLRe = regexp.MustCompile(`([^\]]+)\]\(([^)]+)\)`)
	newsSourceRe   = regexp.MustCompile(`\*\s*\*\*출처\*\*\s*:\s*([^\n]+)`)
	newsImageRe    = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)
	newsSummaryRe  = regexp.MustCompile(`>\s*([^\n]+)`)
)

func convertNewsSection(s string) string {
	idx := strings.Index(s, newsHeading)
	if idx < 0 {
		return s
	}

	before := s[:idx]
	rest := s[idx+len(newsHeading):]

	// Everything up to the next section heading belongs to the news block.
	content := rest
	remaining := ""
	if next := strings.Index(rest, "\n## "); next >= 0 {
		content = rest[:next]
		remaining = rest[next+1:]
	}

	var cards strings.Builder
	cards.WriteString(`<div class="news-container">` + "\n")

	for _, chunk := range strings.Split(content, "### [") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if card, ok := renderNewsCard(chunk); ok {
			cards.WriteString(card)
		}
	}
	cards.WriteString("</div>\n")

	return before + "<h2>📰 관련 뉴스</h2>\n" + cards.String() + remaining
}

func renderNewsCard(chunk string) (string, bool) {
	m := newsTitleURLRe.FindStringSubmatch(chunk)
	if m == nil {
		return "", false
	}
	title, url := m[1], m[2]

	source := "뉴스"
	if sm := newsSourceRe.FindStringSubmatch(chunk); sm != nil {
		source = strings.TrimSpace(sm[1])
	}

	imgURL := ""
	if im := newsImageRe.FindStringSubmatch(chunk); im != nil {
		imgURL = im[1]
	}

	summary := ""
	if qm := newsSummaryRe.FindStringSubmatch(chunk); qm != nil {
		summary = strings.TrimSpace(qm[1])
	}

	var b strings.Builder
	b.WriteString(`<div class="news-card">` + "\n")
	if imgURL != "" {
		b.WriteString(fmt.Sprintf(`<div class="news-image"><img src="%s" alt="%s"></div>`+"\n", imgURL, title))
	}
	b.WriteString(`<div class="news-body">` + "\n")
	b.WriteString(fmt.Sprintf(`<div class="news-source">%s</div>`+"\n", source))
	b.WriteString(fmt.Sprintf(`<h4 class="news-title"><a href="%s" target="_blank">%s</a></h4>`+"\n", url, title))
	b.WriteString(fmt.Sprintf(`<p class="news-summary">%s</p>`+"\n", summary))
	b.WriteString("</div>\n</div>\n")
	return b.String(), true
}

var imageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)

func convertImages(s string) string {
	return imageRe.ReplaceAllString(s, `<img src="$2" alt="$1" class="post-image" />`)
}

// convertLinks turns markdown links into anchors. A file:// URL marks an
// internal reference with no publishable target; it becomes emphasized
// text instead of a dead link.
var linkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

func convertLinks(s string) string {
	return linkRe.ReplaceAllStringFunc(s, func(link string) string {
		m := linkRe.FindStringSubmatch(link)
		text, url := m[1], m[2]
		if strings.HasPrefix(url, "file://") {
			return fmt.Sprintf("<strong>%s</strong>", text)
		}
		return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, url, text)
	})
}

// convertHeadings shifts every heading one level deeper: the publish
// target owns <h1> for the page title.
var headingRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, 4)
	for i := 4; i >= 1; i-- {
		res = append(res, regexp.MustCompile(fmt.Sprintf(`(?m)^%s (.+)$`, strings.Repeat("#", i))))
	}
	return res
}()

func convertHeadings(s string) string {
	for idx, re := range headingRes {
		level := 4 - idx // res are ordered h4..h1
		s = re.ReplaceAllString(s, fmt.Sprintf(`<h%d>$1</h%d>`, level+1, level+1))
	}
	return s
}

// convertInline handles the inline spans. Precedence is fixed:
// bold-italic before bold before italic, so nested markers never
// match ambiguously.
var (
	boldItalicRe = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.+?)\*`)
	strikeRe     = regexp.MustCompile(`~~(.+?)~~`)
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")
)

func convertInline(s string) string {
	s = boldItalicRe.ReplaceAllString(s, `<strong><em>$1</em></strong>`)
	s = boldRe.ReplaceAllString(s, `<strong>$1</strong>`)
	s = italicRe.ReplaceAllString(s, `<em>$1</em>`)
	s = strikeRe.ReplaceAllString(s, `<del>$1</del>`)
	s = inlineCodeRe.ReplaceAllString(s, `<code>$1</code>`)
	return s
}

var (
	bulletItemRe  = regexp.MustCompile(`(?m)^[ \t]*[*+-] (.+)$`)
	numberItemRe  = regexp.MustCompile(`(?m)^[ \t]*\d+\. (.+)$`)
)

func convertListItems(s string) string {
	s = bulletItemRe.ReplaceAllString(s, `<li>$1</li>`)
	s = numberItemRe.ReplaceAllString(s, `<li>$1</li>`)
	return s
}

var blockquoteRe = regexp.MustCompile(`(?m)^> (.+)$`)

func convertBlockquotes(s string) string {
	return blockquoteRe.ReplaceAllString(s, `<blockquote>$1</blockquote>`)
}

// wrapBlocks is the final structural pass: consecutive <li> lines are
// grouped into one <ul>, a blank or non-list line closes the open list,
// and any remaining plain line becomes a paragraph. Lines inside
// <pre> blocks are passed through untouched.
var blockPrefixes = []string{"<h", "<blockquote", "<div", "</div", "<pre", "<p", "<hr", "<img", "<ul", "</ul"}

func wrapBlocks(s string) string {
	var out []string
	inList := false
	inPre := false

	closeList := func() {
		if inList {
			out = append(out, "</ul>")
			inList = false
		}
	}

	for _, raw := range strings.Split(s, "\n") {
		if inPre {
			out = append(out, raw)
			if strings.Contains(raw, "</pre>") {
				inPre = false
			}
			continue
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			closeList()
			continue
		}

		switch {
		case strings.HasPrefix(line, "<li>"):
			if !inList {
				out = append(out, `<ul class="post-list">`)
				inList = true
			}
			out = append(out, line)
		case isBlockLine(line):
			closeList()
			out = append(out, line)
			if strings.HasPrefix(line, "<pre") && !strings.Contains(line, "</pre>") {
				inPre = true
			}
		default:
			closeList()
			out = append(out, fmt.Sprintf("<p>%s</p>", line))
		}
	}
	closeList()

	return strings.Join(out, "\n")
}

func isBlockLine(line string) bool {
	for _, prefix := range blockPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
