package pipeline

import (
	"github.com/shouni/go-article-enricher/pkg/classify"
	"github.com/shouni/go-article-enricher/pkg/dates"
)

// Summary は処理結果の集計です。
type Summary struct {
	Rows    int
	Dated   int
	Labels  map[classify.Label]int
	Sources map[dates.Source]int
}

// Summarize は結果の件数をラベル別・日付の取得元別に集計します。
func Summarize(rows []ResultRow) Summary {
	s := Summary{
		Rows:    len(rows),
		Labels:  make(map[classify.Label]int, len(classify.Labels())),
		Sources: make(map[dates.Source]int),
	}
	for _, l := range classify.Labels() {
		s.Labels[l] = 0
	}
	for _, r := range rows {
		s.Labels[r.Label]++
		if !r.Date.IsZero() {
			s.Dated++
			s.Sources[r.DateSource]++
		}
	}
	return s
}
