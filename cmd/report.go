package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"github.com/shouni/go-article-enricher/pkg/classify"
	"github.com/shouni/go-article-enricher/pkg/dates"
	"github.com/shouni/go-article-enricher/pkg/pipeline"
)

// headlineTableWidth は表に表示する見出しの最大表示幅です。
const headlineTableWidth = 48

// renderResults は行ごとの結果と集計を表形式で出力します。
func renderResults(w io.Writer, rows []pipeline.ResultRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Headline", "Date", "Source", "Classification", "Similarity"})

	for i, r := range rows {
		t.AppendRow(table.Row{
			i + 1,
			runewidth.Truncate(r.Headline, headlineTableWidth, "..."),
			r.Date.String(),
			string(r.DateSource),
			r.Label.String(),
			fmt.Sprintf("%.3f", r.Similarity),
		})
	}

	s := pipeline.Summarize(rows)
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d rows", s.Rows), fmt.Sprintf("%d dated", s.Dated), "", "", ""})
	t.Render()

	renderSummary(w, s)
}

// renderSummary はラベル別と日付の取得元別の件数を出力します。
func renderSummary(w io.Writer, s pipeline.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Classification", "Count"})
	for _, l := range classify.Labels() {
		t.AppendRow(table.Row{l.String(), s.Labels[l]})
	}
	t.Render()

	if len(s.Sources) == 0 {
		return
	}
	sources := make([]dates.Source, 0, len(s.Sources))
	for src := range s.Sources {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Date Source", "Count"})
	for _, src := range sources {
		t.AppendRow(table.Row{string(src), s.Sources[src]})
	}
	t.Render()
}
