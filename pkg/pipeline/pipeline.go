// Package pipeline は (見出し, URL) の行を並列に取得し、公開日・分類・類似度を付与します。
package pipeline

import (
	"context"
	"strings"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shouni/go-article-enricher/pkg/classify"
	"github.com/shouni/go-article-enricher/pkg/dates"
	"github.com/shouni/go-article-enricher/pkg/similarity"
	"github.com/shouni/go-article-enricher/pkg/textextract"
)

const (
	// DefaultConcurrency は、並列取得のデフォルトの最大同時実行数を定義します。
	DefaultConcurrency = 6
	// DefaultRateLimit は、1秒あたりの取得開始数の上限を定義します。
	DefaultRateLimit = 1.0
	// headlineLogWidth はログに出力する見出しの表示幅です。
	headlineLogWidth = 60
)

// Input は処理対象の1行です。
type Input struct {
	Headline string
	Link     string
}

// ResultRow は1行の処理結果です。入力と同じ位置に対応します。
type ResultRow struct {
	Headline   string
	Link       string
	Date       dates.Date   // ゼロ値は日付なし
	DateSource dates.Source // 日付を見つけた戦略。日付なしの場合は空
	Label      classify.Label
	Similarity float64
}

// Fetcher はURLからHTMLを取得します。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Pipeline は行ごとの取得と抽出を、同時実行数と取得間隔を制限しながら実行します。
type Pipeline struct {
	fetcher     Fetcher
	engine      *dates.Engine
	classifier  *classify.Classifier
	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// Option は Pipeline の設定を変更します。
type Option func(*Pipeline)

// WithConcurrency は最大同時実行数を設定します。0以下の場合は DefaultConcurrency です。
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithRateLimit は1秒あたりの取得開始数を設定します。0以下の場合は無制限です。
func WithRateLimit(rps float64) Option {
	return func(p *Pipeline) {
		if rps <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New は Pipeline を初期化します。
// engine と classifier が nil の場合は既定の設定で生成します。
func New(fetcher Fetcher, engine *dates.Engine, classifier *classify.Classifier, opts ...Option) *Pipeline {
	if engine == nil {
		engine = dates.NewEngine(nil)
	}
	if classifier == nil {
		classifier = classify.New()
	}
	p := &Pipeline{
		fetcher:     fetcher,
		engine:      engine,
		classifier:  classifier,
		concurrency: DefaultConcurrency,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process は取得済みのHTMLから1行分の結果を組み立てます。
// 結果の見出しとリンクは入力の値をそのまま保持します。
// 同じ入力とHTMLに対して常に同じ結果を返します。
func (p *Pipeline) Process(in Input, html string) ResultRow {
	row := ResultRow{
		Headline: in.Headline,
		Link:     in.Link,
		Label:    classify.Miscellaneous,
	}

	page, err := dates.NewPage(html)
	if err != nil {
		return row
	}

	if result, ok := p.engine.ExtractPage(page); ok {
		row.Date = result.Date
		row.DateSource = result.Candidate.Source
	}

	text := textextract.ExtractFromDocument(page.Doc)
	row.Label = p.classifier.Classify(text)
	row.Similarity = similarity.Score(strings.TrimSpace(in.Headline), text)
	return row
}

// Run はすべての行を処理し、入力と同じ順序・同じ件数の結果を返します。
// 1行の失敗で処理全体が止まることはありません。
func (p *Pipeline) Run(ctx context.Context, inputs []Input) []ResultRow {
	results := make([]ResultRow, len(inputs))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			row := p.Process(in, p.fetch(ctx, in.Link))
			results[i] = row
			p.logRow(i, len(inputs), row)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// fetch はHTMLを取得します。失敗した場合は空文字列を返します。
func (p *Pipeline) fetch(ctx context.Context, link string) string {
	link = strings.TrimSpace(link)
	if link == "" || p.fetcher == nil {
		return ""
	}
	if err := p.limiter.Wait(ctx); err != nil {
		p.logger.Debug("取得を中止しました", zap.String("url", link), zap.Error(err))
		return ""
	}

	body, err := p.fetcher.FetchBytes(ctx, link)
	if err != nil {
		p.logger.Warn("コンテンツの取得に失敗しました", zap.String("url", link), zap.Error(err))
		return ""
	}
	return string(body)
}

func (p *Pipeline) logRow(i, total int, row ResultRow) {
	p.logger.Info("行を処理しました",
		zap.Int("row", i+1),
		zap.Int("total", total),
		zap.String("headline", runewidth.Truncate(row.Headline, headlineLogWidth, "...")),
		zap.Float64("similarity", row.Similarity),
		zap.String("date", row.Date.String()),
		zap.String("source", string(row.DateSource)),
		zap.String("label", row.Label.String()),
	)
}
