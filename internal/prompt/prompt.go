// Package prompt builds the generation instruction for one article. The
// build is deterministic: same keyword, category, focus, news items and
// persona always produce the same instruction.
package prompt

import (
	"fmt"
	"strings"

	"github.com/trendpress/trendpress/internal/classify"
	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/internal/news"
)

// personaBlocks are the three fixed writing voices. The active one is
// chosen once at startup through configuration, never per call.
var personaBlocks = map[config.Persona]string{
	config.PersonaNeutral: `[작성자 역할]
너는 중립적인 정보 전달자다. 과장 없이 사실 위주로 정리하고,
독자가 스스로 판단할 수 있도록 기준을 제시한다. 광고/홍보 문구는 쓰지 않는다.`,
	config.PersonaAnalytical: `[작성자 역할]
너는 데이터를 근거로 설명하는 분석가다. 수치와 인과 관계를 우선하고,
추측은 추측이라고 명시한다. 감탄사나 수사적 표현을 피한다.`,
	config.PersonaFriendly: `[작성자 역할]
너는 친근하게 설명해 주는 블로거다. 어려운 용어는 풀어서 쓰고,
독자에게 말을 건네듯 쓰되 존댓말을 유지한다. 허위 과장은 금지다.`,
}

// Outline is the ordered list of required body sections for one category.
type Outline struct {
	Sections []string
}

// outlines maps every category to its article structure. CategoryOther is
// the default used when classification fell back to the catch-all.
var outlines = map[classify.Category]Outline{
	classify.CategorySportsFixture: {[]string{
		"경기 개요: 어떤 경기이며 왜 주목받는지",
		"일정 및 중계 정보: 일시, 장소, 중계 채널",
		"양 팀/선수 전력 비교",
		"관전 포인트 2~3가지",
		"결론: 어떤 팬에게 볼 가치가 있는지",
	}},
	classify.CategorySportsGeneral: {[]string{
		"서론: 해당 선수/구단이 화제가 된 배경",
		"최근 행보와 성적 정리",
		"의미 분석: 리그/종목 차원에서 갖는 의미",
		"결론: 앞으로 지켜볼 포인트",
	}},
	classify.CategorySingleStock: {[]string{
		"서론: 해당 종목이 검색되는 이유",
		"주가 변동 설명: 무엇이 가격을 움직였는지",
		"기업 개요와 사업 구조",
		"투자 판단 시 확인할 기준 2~3가지",
		"결론 및 유의사항: 투자 권유가 아님을 명시",
	}},
	classify.CategoryMacroEconomy: {[]string{
		"서론: 어떤 경제 지표/정책이 이슈인지",
		"배경 설명: 수치와 맥락",
		"생활에 미치는 영향",
		"전문가 시각이 갈리는 지점",
		"결론: 독자가 참고할 판단 기준",
	}},
	classify.CategorySocialControversy: {[]string{
		"서론: 논란의 개요",
		"쟁점 정리: 각 입장의 주장 (중립 유지)",
		"사실 관계로 확인된 부분과 확인되지 않은 부분 구분",
		"결론: 판단에 필요한 기준 제시, 단정 금지",
	}},
	classify.CategorySocialIncident: {[]string{
		"사건 개요: 언제, 어디서, 무엇이",
		"경과와 현재 상황",
		"공식 발표 및 대응",
		"유사 사례나 주의사항",
		"결론: 확인된 사실 위주 요약",
	}},
	classify.CategoryPolitics: {[]string{
		"서론: 어떤 정치적 사안인지",
		"배경과 경과 정리",
		"각 진영의 입장 (균형 있게)",
		"향후 일정과 변수",
		"결론: 사실 관계 중심 정리, 특정 입장 지지 금지",
	}},
	classify.CategoryCelebrityNews: {[]string{
		"서론: 해당 인물이 화제가 된 이유",
		"활동 이력 간략 정리",
		"이번 이슈의 내용 (확인된 사실 위주)",
		"팬/대중 반응",
		"결론: 추측성 내용 배제 안내",
	}},
	classify.CategoryMediaReview: {[]string{
		"서론: 작품 소개와 화제성",
		"기본 정보: 장르, 제작진, 출연진, 공개 플랫폼",
		"줄거리 소개 (스포일러 제외)",
		"볼만한 포인트와 아쉬운 점",
		"결론: 어떤 취향의 시청자에게 맞는지",
	}},
	classify.CategoryDeviceReview: {[]string{
		"서론: 제품이 주목받는 이유",
		"스펙과 가격 정리",
		"장점과 단점",
		"경쟁 제품과 비교 기준",
		"결론: 어떤 사용자에게 적합한지",
	}},
	classify.CategoryTechTrend: {[]string{
		"서론: 이 기술이 검색되는 배경",
		"기술 개요: 쉬운 설명",
		"현재 활용 사례",
		"한계와 과제",
		"결론: 지켜볼 가치가 있는 이유",
	}},
	classify.CategoryHealth: {[]string{
		"서론: 해당 건강 이슈의 배경",
		"증상/원인 등 기본 정보",
		"일반적으로 알려진 관리 방법",
		"주의: 의학적 진단은 전문가 상담 필요 명시",
		"결론: 참고 수준의 정보임을 안내",
	}},
	classify.CategoryLifestyle: {[]string{
		"서론: 왜 지금 관심을 받는지",
		"핵심 정보 정리",
		"활용 팁이나 선택 기준",
		"결론: 어떤 상황에서 참고하면 좋은지",
	}},
	classify.CategoryOther: {[]string{
		"서론: 사람들이 이 키워드를 검색하는 이유 요약",
		"본문 1: 이 주제를 판단할 때 자주 사용되는 기준 2~3가지",
		"본문 2: 해당 기준에서 본 이 키워드의 특징",
		"본문 3: 상황이나 조건에 따라 달라질 수 있는 한계나 주의점",
		"결론: 어떤 경우에 참고하면 적합한 정보인지 정리",
	}},
}

// OutlineFor returns the category's outline, defaulting to the catch-all.
func OutlineFor(cat classify.Category) Outline {
	if o, ok := outlines[cat]; ok {
		return o
	}
	return outlines[classify.CategoryOther]
}

// Build assembles the full generation instruction.
func Build(keyword string, cat classify.Category, focus string, items []news.Item, persona config.Persona) string {
	var b strings.Builder

	block, ok := personaBlocks[persona]
	if !ok {
		block = personaBlocks[config.PersonaNeutral]
	}
	b.WriteString(block)
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("'%s'에 대한 블로그 글을 작성하라.\n", keyword))
	b.WriteString(fmt.Sprintf("이 글의 초점: %s\n\n", focus))

	if len(items) > 0 {
		b.WriteString("[참고 뉴스 요약]\n")
		b.WriteString("아래 여러 출처의 요약을 하나의 일관된 설명으로 통합하라.\n")
		b.WriteString("출처 간 내용이 다르면 공통된 사실만 쓰고, 출처를 그대로 복사하지 마라.\n")
		for i, item := range items {
			b.WriteString(fmt.Sprintf("%d. [%s] %s: %s\n", i+1, item.Source, item.Title, item.Summary))
		}
		b.WriteString("\n")
	}

	b.WriteString(`[Front-matter 작성 규칙]
반드시 아래 형식을 정확히 따라야 한다.

---
title: '제목은 여기에'
categories: [정보, 분석]
tags: ['태그1', '태그2', '태그3']
description: 메타 설명은 여기에
---

- 시작과 끝 모두 정확히 --- (하이픈 3개)를 사용할 것
- frontmatter를 코드 블록(` + "```" + `)으로 감싸지 말 것
- frontmatter 다음에는 반드시 빈 줄을 하나 넣을 것
- title: '` + "%KEYWORD%" + `'를 포함한 정보형 제목
- tags: 첫 태그는 키워드 자신으로 할 것

`)

	outline := OutlineFor(cat)
	b.WriteString("[필수 구성]\n")
	for i, section := range outline.Sections {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, section))
	}
	b.WriteString("\n")

	b.WriteString(`[형식]
- Markdown
- front-matter는 본문 최상단에 작성
- 전체 분량 600~900 단어

위 기준을 지켜 front-matter와 본문을 함께 작성하라.`)

	return strings.ReplaceAll(b.String(), "%KEYWORD%", keyword)
}
