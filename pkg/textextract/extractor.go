// Package textextract は、記事HTMLから分類と類似度計算に使う本文テキストを取り出します。
package textextract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// paragraphSelector は本文として扱う要素です。見出しやキャプションは精度を優先して対象外とします。
	paragraphSelector = "p"

	// paragraphSeparator は段落同士を連結する区切り文字です。
	paragraphSeparator = " "

	// invisibleSelectors は可視テキストから除外する要素です。
	invisibleSelectors = "script, style, noscript, template"
)

// Extract はHTML文字列から全段落のテキストを文書順に連結して返します。
// 段落が無い場合や解析に失敗した場合は空文字列を返し、エラーは発生させません。
func Extract(html string) (text string) {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	defer func() {
		// 想定外のマークアップで解析器が異常終了しても空文字列で継続する
		if r := recover(); r != nil {
			text = ""
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return ExtractFromDocument(doc)
}

// ExtractFromDocument は解析済みの goquery.Document から段落テキストを取り出します。
func ExtractFromDocument(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	var parts []string
	doc.Find(paragraphSelector).Each(func(i int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})

	return strings.TrimSpace(strings.Join(parts, paragraphSeparator))
}

// VisibleText はスクリプトやスタイルを除いた body 全体のテキストを返します。
// テキストノード同士は空白で区切るため、隣接する要素の語が連結されることはありません。
// 元の文書は変更しません。
func VisibleText(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	clone := root.Clone()
	clone.Find(invisibleSelectors).Remove()

	var parts []string
	for _, n := range clone.Nodes {
		parts = collectText(n, parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// collectText はノード配下のテキストノードを文書順に集めます。
func collectText(n *html.Node, parts []string) []string {
	if n.Type == html.TextNode {
		return append(parts, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = collectText(c, parts)
	}
	return parts
}
