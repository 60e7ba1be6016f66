// Package pipeline は設定から取得クライアント、日付エンジン、分類器を組み立てます。
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shouni/go-article-enricher/internal/config"
	"github.com/shouni/go-article-enricher/pkg/classify"
	"github.com/shouni/go-article-enricher/pkg/dates"
	"github.com/shouni/go-article-enricher/pkg/httpclient"
	"github.com/shouni/go-article-enricher/pkg/pipeline"
)

// Components は組み立て済みの依存関係です。
type Components struct {
	Client     *httpclient.Client
	Engine     *dates.Engine
	Classifier *classify.Classifier
	Pipeline   *pipeline.Pipeline
}

// Build は設定から処理パイプラインを初期化します。
func Build(cfg *config.Config, log *zap.Logger) (*Components, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// 1. 外部の Fetcher 実装を初期化
	opts := []httpclient.Option{httpclient.WithMaxRetries(cfg.MaxRetries)}
	if cfg.UserAgent != "" {
		opts = append(opts, httpclient.WithUserAgent(cfg.UserAgent))
	}
	client := httpclient.New(cfg.Timeout, opts...)

	// 2. 分類規則の読み込み
	rules := classify.DefaultRules()
	if cfg.RulesFile != "" {
		loaded, err := classify.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("分類規則の初期化エラー: %w", err)
		}
		rules = loaded
		log.Debug("分類規則を読み込みました", zap.String("path", cfg.RulesFile), zap.Int("rules", len(rules)))
	}
	classifier := classify.New(rules...)

	// 3. 日付エンジンとパイプラインを初期化 (DI)
	engine := dates.NewEngine(dates.NewDateparseNormalizer())
	p := pipeline.New(client, engine, classifier,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithRateLimit(cfg.RateLimit),
		pipeline.WithLogger(log),
	)

	return &Components{
		Client:     client,
		Engine:     engine,
		Classifier: classifier,
		Pipeline:   p,
	}, nil
}
