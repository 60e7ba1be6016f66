package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shouni/go-article-enricher/pkg/classify"
	"github.com/shouni/go-article-enricher/pkg/dates"
)

// fakeFetcher はURLごとに固定のHTMLまたはエラーを返します。
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	// 完了順を入れ替えるため、先頭の行ほど遅く返す
	if url == "https://example.com/1" {
		time.Sleep(20 * time.Millisecond)
	}
	return []byte(f.pages[url]), nil
}

const (
	indiaArticle = `<html><head><meta property="article:published_time" content="2024-03-15T10:00:00+05:30"></head>
		<body><p>India sees strong economic success this year</p></body></html>`
	chinaArticle = `<html><head><script type="application/ld+json">{"datePublished":"2023-07-04"}</script></head>
		<body><p>China faces new tariff sanctions</p></body></html>`
	undatedArticle = `<html><body><p>Unrelated local weather report</p></body></html>`
)

func newTestPipeline(t *testing.T, f Fetcher) *Pipeline {
	return New(f, nil, nil,
		WithConcurrency(3),
		WithRateLimit(0),
		WithLogger(zaptest.NewLogger(t)),
	)
}

func TestPipeline_Process(t *testing.T) {
	p := newTestPipeline(t, nil)

	row := p.Process(Input{Headline: "India sees strong economic success this year", Link: "https://example.com/1"}, indiaArticle)

	assert.Equal(t, "India sees strong economic success this year", row.Headline)
	assert.Equal(t, "https://example.com/1", row.Link)
	assert.Equal(t, "15/03/2024", row.Date.String())
	assert.Equal(t, dates.SourceMetaTag, row.DateSource)
	assert.Equal(t, classify.ProIndia, row.Label)
	assert.InDelta(t, 1.0, row.Similarity, 1e-9)
}

func TestPipeline_Process_EmptyHTML(t *testing.T) {
	p := newTestPipeline(t, nil)

	row := p.Process(Input{Headline: "Anything", Link: "https://example.com/x"}, "")

	assert.True(t, row.Date.IsZero())
	assert.Empty(t, row.DateSource)
	assert.Equal(t, classify.Miscellaneous, row.Label)
	assert.Zero(t, row.Similarity)
}

func TestPipeline_Run_PreservesOrderAndLength(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			"https://example.com/1": indiaArticle,
			"https://example.com/2": chinaArticle,
			"https://example.com/4": undatedArticle,
		},
		errs: map[string]error{
			"https://example.com/3": errors.New("connection refused"),
		},
	}
	inputs := []Input{
		{Headline: "India success", Link: "https://example.com/1"},
		{Headline: "China tariffs", Link: "https://example.com/2"},
		{Headline: "Broken link", Link: "https://example.com/3"},
		{Headline: "Weather", Link: "https://example.com/4"},
		{Headline: "No link", Link: "  "},
	}

	rows := newTestPipeline(t, f).Run(context.Background(), inputs)

	require.Len(t, rows, len(inputs))
	for i, in := range inputs {
		assert.Equal(t, in.Headline, rows[i].Headline, "row %d", i)
		assert.Equal(t, in.Link, rows[i].Link, "row %d", i)
	}

	assert.Equal(t, "15/03/2024", rows[0].Date.String())
	assert.Equal(t, classify.ProIndia, rows[0].Label)

	assert.Equal(t, "04/07/2023", rows[1].Date.String())
	assert.Equal(t, dates.SourceStructuredData, rows[1].DateSource)
	assert.Equal(t, classify.AntiChina, rows[1].Label)

	// 取得に失敗した行も結果を持つ
	assert.True(t, rows[2].Date.IsZero())
	assert.Equal(t, classify.Miscellaneous, rows[2].Label)
	assert.Zero(t, rows[2].Similarity)

	assert.True(t, rows[3].Date.IsZero())
	assert.Equal(t, classify.Miscellaneous, rows[3].Label)

	assert.Equal(t, classify.Miscellaneous, rows[4].Label)
	assert.Len(t, f.calls, 4, "空のリンクは取得しない")
}

func TestPipeline_Run_KeepsRawCellValues(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"https://example.com/2": chinaArticle}}
	in := Input{Headline: "  China faces new tariff sanctions ", Link: " https://example.com/2\t"}

	rows := newTestPipeline(t, f).Run(context.Background(), []Input{in})

	require.Len(t, rows, 1)
	assert.Equal(t, in.Headline, rows[0].Headline)
	assert.Equal(t, in.Link, rows[0].Link)
	// 取得と類似度には前後の空白を除いた値を使う
	assert.Equal(t, []string{"https://example.com/2"}, f.calls)
	assert.Equal(t, classify.AntiChina, rows[0].Label)
	assert.InDelta(t, 1.0, rows[0].Similarity, 1e-9)
}

func TestPipeline_Run_CanceledContext(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"https://example.com/1": indiaArticle}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := newTestPipeline(t, f).Run(ctx, []Input{
		{Headline: "a", Link: "https://example.com/1"},
		{Headline: "b", Link: "https://example.com/1"},
	})

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.True(t, r.Date.IsZero())
		assert.Equal(t, classify.Miscellaneous, r.Label)
	}
	assert.Empty(t, f.calls)
}

func TestPipeline_Run_Empty(t *testing.T) {
	rows := newTestPipeline(t, &fakeFetcher{}).Run(context.Background(), nil)
	assert.Empty(t, rows)
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	pages := make(map[string]string)
	var inputs []Input
	for i := range 8 {
		url := fmt.Sprintf("https://example.com/%d", i+10)
		if i%2 == 0 {
			pages[url] = indiaArticle
		} else {
			pages[url] = chinaArticle
		}
		inputs = append(inputs, Input{Headline: fmt.Sprintf("headline %d", i), Link: url})
	}

	p := newTestPipeline(t, &fakeFetcher{pages: pages})
	first := p.Run(context.Background(), inputs)
	second := p.Run(context.Background(), inputs)

	assert.Equal(t, first, second)
}

func TestPipeline_Options(t *testing.T) {
	p := New(nil, nil, nil, WithConcurrency(0), WithLogger(nil))
	assert.Equal(t, DefaultConcurrency, p.concurrency)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.engine)
	assert.NotNil(t, p.classifier)

	p = New(nil, nil, nil, WithConcurrency(2), WithRateLimit(5))
	assert.Equal(t, 2, p.concurrency)
	assert.InDelta(t, 5.0, float64(p.limiter.Limit()), 1e-9)
}

func TestSummarize(t *testing.T) {
	rows := []ResultRow{
		{Label: classify.ProIndia, Date: dates.Date{Year: 2024, Month: time.March, Day: 15}, DateSource: dates.SourceMetaTag},
		{Label: classify.ProIndia},
		{Label: classify.AntiChina, Date: dates.Date{Year: 2023, Month: time.July, Day: 4}, DateSource: dates.SourceMetaTag},
		{Label: classify.Miscellaneous},
	}

	s := Summarize(rows)

	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 2, s.Dated)
	assert.Equal(t, 2, s.Labels[classify.ProIndia])
	assert.Equal(t, 1, s.Labels[classify.AntiChina])
	assert.Equal(t, 0, s.Labels[classify.AntiPakistan])
	assert.Equal(t, 1, s.Labels[classify.Miscellaneous])
	assert.Equal(t, map[dates.Source]int{dates.SourceMetaTag: 2}, s.Sources)
}
