package cmd

import (
	"fmt"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-article-enricher/internal/config"
	"github.com/shouni/go-article-enricher/internal/logger"
	internalpipeline "github.com/shouni/go-article-enricher/internal/pipeline"
	"github.com/shouni/go-article-enricher/pkg/httpclient"
	"github.com/shouni/go-article-enricher/pkg/pipeline"
	"github.com/shouni/go-article-enricher/pkg/retry"
)

// --- グローバル定数 ---

const (
	appName = "article-enricher"

	// 全体処理のタイムアウトはクライアントタイムアウトの2倍 (feed, inspect で利用)
	overallTimeoutFactor = 2
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	ConfigFile     string        // --config-file 設定ファイルのパス
	Timeout        time.Duration // --timeout 記事取得1回あたりのタイムアウト
	MaxRetries     uint64        // --max-retries リトライ回数
	Concurrency    int           // --concurrency 最大同時取得数
	RateLimit      float64       // --rate-limit 1秒あたりの取得開始数
	UserAgent      string        // --user-agent
	RulesFile      string        // --rules-file 分類規則のYAML
	LogLevel       string        // --log-level
	WithSimilarity bool          // --with-similarity 類似度列を出力する
}

var Flags AppFlags

// フラグ名と設定キーの対応
var flagKeys = map[string]string{
	"timeout":         config.KeyTimeout,
	"max-retries":     config.KeyMaxRetries,
	"concurrency":     config.KeyConcurrency,
	"rate-limit":      config.KeyRateLimit,
	"user-agent":      config.KeyUserAgent,
	"rules-file":      config.KeyRulesFile,
	"log-level":       config.KeyLogLevel,
	"with-similarity": config.KeyWithSimilarity,
}

var (
	appConfig     *config.Config
	appLogger     = zap.NewNop()
	appComponents *internalpipeline.Components
)

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&Flags.ConfigFile, "config-file", "", "設定ファイル (YAML) のパス。省略時は ./enricher.yaml を探します")
	pf.DurationVar(&Flags.Timeout, "timeout", httpclient.DefaultHTTPTimeout, "記事取得1回あたりのタイムアウト")
	pf.Uint64Var(&Flags.MaxRetries, "max-retries", retry.DefaultMaxRetries, "記事取得のリトライ最大回数")
	pf.IntVar(&Flags.Concurrency, "concurrency", pipeline.DefaultConcurrency, "記事取得の最大同時実行数")
	pf.Float64Var(&Flags.RateLimit, "rate-limit", pipeline.DefaultRateLimit, "1秒あたりの記事取得開始数 (0で無制限)")
	pf.StringVar(&Flags.UserAgent, "user-agent", httpclient.UserAgent, "記事取得時の User-Agent")
	pf.StringVar(&Flags.RulesFile, "rules-file", "", "分類規則のYAMLファイル。省略時は組み込みの規則を使います")
	pf.StringVar(&Flags.LogLevel, "log-level", "info", "ログレベル (debug, info, warn, error)")
	pf.BoolVar(&Flags.WithSimilarity, "with-similarity", false, "出力に Similarity 列を追加します")
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	v := config.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("フラグ --%s の設定に失敗しました: %w", name, err)
		}
	}

	cfg, err := config.Load(v, Flags.ConfigFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, clibase.Flags.Verbose)
	if err != nil {
		return err
	}

	components, err := internalpipeline.Build(cfg, log)
	if err != nil {
		return err
	}

	appConfig, appLogger, appComponents = cfg, log, components

	log.Debug("設定を読み込みました",
		zap.Duration("timeout", cfg.Timeout),
		zap.Uint64("max_retries", cfg.MaxRetries),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Float64("rate_limit", cfg.RateLimit),
		zap.String("rules_file", cfg.RulesFile),
	)
	return nil
}

// overallTimeout は単一URLを扱うコマンドの全体タイムアウトを返します。
func overallTimeout() time.Duration {
	return appConfig.Timeout * overallTimeoutFactor
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	defer func() { _ = appLogger.Sync() }()

	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		enrichCmd,
		feedCmd,
		inspectCmd,
	)
}
