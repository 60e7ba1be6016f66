package dates

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"

	"github.com/shouni/go-article-enricher/pkg/textextract"
)

// metaDateSelectors は公開日を持つ meta タグです。並び順が優先順位です。
var metaDateSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="pubdate"]`,
	`meta[name="date"]`,
	`meta[itemprop="datePublished"]`,
	`meta[property="og:article:published_time"]`,
	`meta[name="publishdate"]`,
	`meta[name="DC.date.issued"]`,
}

// structuredDateKeys は構造化データ内の日付フィールドです。並び順が優先順位です。
var structuredDateKeys = []string{"datePublished", "dateCreated"}

// dateAttributeTokens は class / id 属性に含まれる日付関連の語です。
var dateAttributeTokens = []string{"date", "published", "pubdate", "post-date", "article-date"}

const (
	structuredDataSelector = `script[type*="ld+json"]`
	attributeScanSelector  = "body *"
	attributeSkipSelector  = "script, style, noscript, template, meta, link"
)

// DefaultStrategies は公開日探索の6段階を優先順に返します。
// 明示的な構造化シグナルを、マークアップ慣習やテキスト走査より先に評価します。
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Source: SourceMetaTag, Order: MonthFirst, Find: findMetaTag},
		{Source: SourceStructuredData, Order: MonthFirst, Find: findStructuredData},
		{Source: SourceTimeElement, Order: MonthFirst, Find: findTimeElement},
		{Source: SourceAttributeHeuristic, Order: DayFirst, Find: findDateAttribute},
		{Source: SourceInlineScript, Order: MonthFirst, Find: findInlineScript},
		{Source: SourceFreeText, Order: DayFirst, Find: findFreeText},
	}
}

// findMetaTag は最初に content が空でない公開日 meta タグを返します。
func findMetaTag(page *Page) (string, bool) {
	for _, selector := range metaDateSelectors {
		var value string
		page.Doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			content, _ := s.Attr("content")
			value = strings.TrimSpace(content)
			return value == ""
		})
		if value != "" {
			return value, true
		}
	}
	return "", false
}

// findStructuredData は JSON-LD ブロックから公開日を探します。
// 解析できないブロックは読み飛ばします。
func findStructuredData(page *Page) (string, bool) {
	var value string
	page.Doc.Find(structuredDataSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return true
		}
		value, _ = structuredDate(data)
		return value == ""
	})
	return value, value != ""
}

// structuredDate はオブジェクト、またはオブジェクトのリストを順に調べます。
func structuredDate(data any) (string, bool) {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if date, ok := structuredDate(item); ok {
				return date, true
			}
		}
	case map[string]any:
		for _, key := range structuredDateKeys {
			if date, ok := v[key].(string); ok && strings.TrimSpace(date) != "" {
				return strings.TrimSpace(date), true
			}
		}
		if graph, ok := v["@graph"]; ok {
			return structuredDate(graph)
		}
	}
	return "", false
}

// findTimeElement は最初の time 要素の datetime 属性、無ければその表示テキストを返します。
func findTimeElement(page *Page) (string, bool) {
	el := page.Doc.Find("time").First()
	if el.Length() == 0 {
		return "", false
	}
	if datetime, ok := el.Attr("datetime"); ok && strings.TrimSpace(datetime) != "" {
		return strings.TrimSpace(datetime), true
	}
	text := textUtils.NormalizeText(el.Text())
	return text, text != ""
}

// findDateAttribute は class または id に日付関連の語を含む最初の要素のテキストを返します。
func findDateAttribute(page *Page) (string, bool) {
	var value string
	page.Doc.Find(attributeScanSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if s.Is(attributeSkipSelector) || !hasDateAttribute(s) {
			return true
		}
		value = textUtils.NormalizeText(s.Text())
		return value == ""
	})
	return value, value != ""
}

func hasDateAttribute(s *goquery.Selection) bool {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	attrs := strings.ToLower(class + " " + id)
	for _, token := range dateAttributeTokens {
		if strings.Contains(attrs, token) {
			return true
		}
	}
	return false
}

// findInlineScript はスクリプト本文から datePublished 風のリテラルを探します。
func findInlineScript(page *Page) (string, bool) {
	var value string
	page.Doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if m := inlineScriptDatePattern.FindStringSubmatch(s.Text()); len(m) > 1 {
			value = strings.TrimSpace(m[1])
		}
		return value == ""
	})
	return value, value != ""
}

// findFreeText は可視テキストから最初の日付表現を探します。
func findFreeText(page *Page) (string, bool) {
	match := freeTextDatePattern.FindString(textextract.VisibleText(page.Doc))
	return match, match != ""
}
