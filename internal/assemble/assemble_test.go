package assemble

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/trendpress/trendpress/internal/news"
)

func TestSplitFrontmatterStandardDelimiters(t *testing.T) {
	fm, body := SplitFrontmatter("---\ntitle: '테스트'\n---\n\n본문입니다.")

	assert.Equal(t, "title: '테스트'", fm)
	assert.Equal(t, "본문입니다.", body)
}

func TestSplitFrontmatterToleratesDashVariants(t *testing.T) {
	cases := map[string]string{
		"en dashes":  "–––\ntitle: 'a'\n–––\n본문",
		"em dashes":  "———\ntitle: 'a'\n———\n본문",
		"long run":   "-----\ntitle: 'a'\n-----\n본문",
		"mixed runs": "---\ntitle: 'a'\n–––––\n본문",
	}

	for name, input := range cases {
		fm, body := SplitFrontmatter(input)
		assert.Equal(t, "title: 'a'", fm, name)
		assert.Equal(t, "본문", body, name)
	}
}

func TestSplitFrontmatterUnwrapsCodeFence(t *testing.T) {
	input := "```markdown\n---\ntitle: '감싸진 문서'\n---\n\n본문\n```"

	fm, body := SplitFrontmatter(input)

	assert.Equal(t, "title: '감싸진 문서'", fm)
	assert.Equal(t, "본문", body)
}

func TestSplitFrontmatterAbsent(t *testing.T) {
	fm, body := SplitFrontmatter("# 제목\n\n그냥 본문.")

	assert.Equal(t, "", fm)
	assert.Equal(t, "# 제목\n\n그냥 본문.", body)
}

func TestSplitFrontmatterDashesMidDocumentIgnored(t *testing.T) {
	input := "본문 시작\n\n---\n\n구분선 이후"

	fm, body := SplitFrontmatter(input)

	assert.Equal(t, "", fm, "a horizontal rule is not frontmatter")
	assert.Equal(t, input, body)
}

func TestMarkdownSectionOrder(t *testing.T) {
	doc := Assemble(
		"키워드",
		"---\ntitle: '키워드 정리'\ntags: ['키워드']\n---\n\n# 키워드\n\n본문 내용.",
		[]news.Item{{Title: "기사", URL: "https://news.example/1", Summary: "요약", Source: "연합뉴스"}},
		"images/featured.jpg",
		`<iframe src="https://www.youtube.com/embed/abc"></iframe>`,
		[]RelatedLink{{Title: "이전 글", URL: "file:///posts/old.md"}},
	)

	md := doc.Markdown()

	fmIdx := strings.Index(md, "---\ntitle:")
	imgIdx := strings.Index(md, "![키워드](images/featured.jpg)")
	bodyIdx := strings.Index(md, "본문 내용.")
	videoIdx := strings.Index(md, VideoHeading)
	newsIdx := strings.Index(md, NewsHeading)
	relatedIdx := strings.Index(md, RelatedHeading)

	assert.Equal(t, 0, fmIdx, "frontmatter opens the document")
	assert.True(t, fmIdx < imgIdx, "featured image directly after frontmatter")
	assert.True(t, imgIdx < bodyIdx)
	assert.True(t, bodyIdx < videoIdx)
	assert.True(t, videoIdx < newsIdx)
	assert.True(t, newsIdx < relatedIdx)
}

func TestMarkdownRewrapsFrontmatterWithPlainDashes(t *testing.T) {
	doc := Assemble("키워드", "———\ntitle: '제목'\n———\n본문", nil, "", "", nil)

	md := doc.Markdown()

	assert.True(t, strings.HasPrefix(md, "---\ntitle: '제목'\n---\n"),
		"odd generator delimiters are normalized on output")
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	doc := Assemble("키워드", "본문만 있는 문서", nil, "", "", nil)

	md := doc.Markdown()

	assert.NotContains(t, md, NewsHeading)
	assert.NotContains(t, md, VideoHeading)
	assert.NotContains(t, md, RelatedHeading)
	assert.NotContains(t, md, "![")
}

func TestMarkdownNewsItemShape(t *testing.T) {
	doc := Assemble("키워드", "본문", []news.Item{{
		Title:   "속보 기사",
		URL:     "https://news.example/a",
		Image:   "images/news_0.jpg",
		Summary: "짧은 요약",
		Source:  "KBS",
	}}, "", "", nil)

	md := doc.Markdown()

	assert.Contains(t, md, "### [속보 기사](https://news.example/a)")
	assert.Contains(t, md, "* **출처**: KBS")
	assert.Contains(t, md, "![뉴스 이미지](images/news_0.jpg)")
	assert.Contains(t, md, "> 짧은 요약")
}

func TestMarkdownTruncatesLongSummaries(t *testing.T) {
	long := strings.Repeat("가", 200)
	doc := Assemble("키워드", "본문", []news.Item{{
		Title: "기사", URL: "https://news.example/a", Summary: long, Source: "MBC",
	}}, "", "", nil)

	md := doc.Markdown()

	want := "> " + strings.Repeat("가", 150) + "..."
	assert.Contains(t, md, want)
	assert.NotContains(t, md, strings.Repeat("가", 151))
}

func TestMarkdownKeepsShortSummaryIntact(t *testing.T) {
	exact := strings.Repeat("나", 150)
	doc := Assemble("키워드", "본문", []news.Item{{
		Title: "기사", URL: "https://news.example/a", Summary: exact, Source: "SBS",
	}}, "", "", nil)

	md := doc.Markdown()

	assert.Contains(t, md, "> "+exact+"\n")
	assert.NotContains(t, md, exact+"...")
	assert.Equal(t, 150, utf8.RuneCountInString(exact))
}

func TestExtractTitleFromFrontmatter(t *testing.T) {
	md := "---\ntitle: '케이팝 데몬 헌터스 정리'\ntags: ['케이팝 데몬 헌터스']\n---\n\n# 다른 제목\n본문"

	assert.Equal(t, "케이팝 데몬 헌터스 정리", ExtractTitle(md))
}

func TestExtractTitleFallsBackToHeading(t *testing.T) {
	md := "# 헤딩 제목\n\n본문"

	assert.Equal(t, "헤딩 제목", ExtractTitle(md))
}

func TestExtractTitlePlaceholderWhenMissing(t *testing.T) {
	assert.Equal(t, NoTitle, ExtractTitle("제목이 전혀 없는 본문"))
}

func TestExtractTitleFromBrokenYAMLFrontmatter(t *testing.T) {
	// Unbalanced quoting makes this invalid YAML; the line scan still
	// recovers the title.
	md := "---\ntitle: '케이팝: 데몬 헌터스\ntags: [a\n---\n본문"

	assert.Equal(t, "케이팝: 데몬 헌터스", ExtractTitle(md))
}

func TestExtractTags(t *testing.T) {
	md := "---\ntitle: '제목'\ntags: ['키워드', '분석']\n---\n본문"

	assert.Equal(t, []string{"키워드", "분석"}, ExtractTags(md))
}

func TestExtractTagsAbsent(t *testing.T) {
	assert.Nil(t, ExtractTags("# 제목\n본문"))
}
