package dates

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page は1つの記事HTMLを、戦略間で共有する解析済みの形で保持します。
// 戦略は Page を変更してはいけません。
type Page struct {
	Raw string
	Doc *goquery.Document
}

// NewPage はHTML文字列を解析して Page を生成します。
func NewPage(html string) (*Page, error) {
	if strings.TrimSpace(html) == "" {
		return nil, errors.New("HTMLが空です")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Page{Raw: html, Doc: doc}, nil
}

// FindFunc は Page から候補文字列を1つ探します。見つからない場合は false を返します。
type FindFunc func(page *Page) (string, bool)

// Strategy は探索チェーンの1段階です。
type Strategy struct {
	Source Source
	// Order は候補を正規化する際の日/月の並び順ヒントです。
	Order Order
	Find  FindFunc
}

// Normalizer は自由形式の日付文字列を暦日に変換します。解析できない場合は false を返します。
type Normalizer interface {
	Normalize(value string, order Order) (Date, bool)
}

// Engine は戦略を優先順に評価し、最初に正規化できた候補の日付を返します。
type Engine struct {
	normalizer Normalizer
	strategies []Strategy
}

// NewEngine は Engine を生成します。strategies を省略すると DefaultStrategies が使われます。
func NewEngine(normalizer Normalizer, strategies ...Strategy) *Engine {
	if normalizer == nil {
		normalizer = NewDateparseNormalizer()
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Engine{
		normalizer: normalizer,
		strategies: strategies,
	}
}

// Extract はHTMLから公開日を探します。
// どの戦略でも日付が得られない場合は false を返します。これはエラーではなく正常な終端結果です。
func (e *Engine) Extract(html string) (Result, bool) {
	page, err := NewPage(html)
	if err != nil {
		return Result{}, false
	}
	return e.ExtractPage(page)
}

// ExtractPage は解析済みの Page から公開日を探します。
func (e *Engine) ExtractPage(page *Page) (result Result, ok bool) {
	if page == nil || page.Doc == nil {
		return Result{}, false
	}

	for _, s := range e.strategies {
		candidate, found := runStrategy(s, page)
		if !found {
			continue
		}
		if date, parsed := e.normalizer.Normalize(candidate.Value, s.Order); parsed {
			return Result{Date: date, Candidate: candidate}, true
		}
	}
	return Result{}, false
}

// Candidates は各戦略の候補を優先順にすべて返します。診断用であり、正規化は行いません。
func (e *Engine) Candidates(page *Page) []Candidate {
	if page == nil || page.Doc == nil {
		return nil
	}
	var out []Candidate
	for _, s := range e.strategies {
		if c, found := runStrategy(s, page); found {
			out = append(out, c)
		}
	}
	return out
}

// runStrategy は戦略を1つ実行します。戦略内の異常終了はその戦略の失敗として扱います。
func runStrategy(s Strategy, page *Page) (candidate Candidate, found bool) {
	defer func() {
		if r := recover(); r != nil {
			candidate, found = Candidate{}, false
		}
	}()

	value, ok := s.Find(page)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return Candidate{}, false
	}
	return Candidate{Value: value, Source: s.Source}, true
}
