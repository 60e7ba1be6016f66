// Package config は設定値をデフォルト値、設定ファイル、.env、環境変数、フラグから読み込みます。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/shouni/go-article-enricher/pkg/httpclient"
	"github.com/shouni/go-article-enricher/pkg/pipeline"
	"github.com/shouni/go-article-enricher/pkg/retry"
)

const (
	// EnvPrefix は環境変数の接頭辞です (例: ENRICHER_TIMEOUT)。
	EnvPrefix = "ENRICHER"
	// DefaultConfigName は自動検出する設定ファイル名 (拡張子なし) です。
	DefaultConfigName = "enricher"
)

// 設定キー
const (
	KeyTimeout        = "timeout"
	KeyMaxRetries     = "max_retries"
	KeyConcurrency    = "concurrency"
	KeyRateLimit      = "rate_limit"
	KeyUserAgent      = "user_agent"
	KeyRulesFile      = "rules_file"
	KeyLogLevel       = "log_level"
	KeyWithSimilarity = "with_similarity"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Timeout        time.Duration
	MaxRetries     uint64
	Concurrency    int
	RateLimit      float64 // 1秒あたりの取得開始数。0以下は無制限
	UserAgent      string
	RulesFile      string
	LogLevel       string
	WithSimilarity bool
}

// New はデフォルト値と環境変数の対応を設定した viper インスタンスを返します。
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTimeout, httpclient.DefaultHTTPTimeout)
	v.SetDefault(KeyMaxRetries, retry.DefaultMaxRetries)
	v.SetDefault(KeyConcurrency, pipeline.DefaultConcurrency)
	v.SetDefault(KeyRateLimit, pipeline.DefaultRateLimit)
	v.SetDefault(KeyUserAgent, httpclient.UserAgent)
	v.SetDefault(KeyRulesFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyWithSimilarity, false)
	return v
}

// Load は .env と設定ファイルを読み込み、検証済みの Config を返します。
// configFile が空の場合はカレントディレクトリの enricher.yaml を探し、無ければ無視します。
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// .env が無い場合は無視する
	_ = godotenv.Load()

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		Timeout:        v.GetDuration(KeyTimeout),
		MaxRetries:     v.GetUint64(KeyMaxRetries),
		Concurrency:    v.GetInt(KeyConcurrency),
		RateLimit:      v.GetFloat64(KeyRateLimit),
		UserAgent:      strings.TrimSpace(v.GetString(KeyUserAgent)),
		RulesFile:      strings.TrimSpace(v.GetString(KeyRulesFile)),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		WithSimilarity: v.GetBool(KeyWithSimilarity),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("設定ファイル %s の読み込みに失敗しました: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}
	return nil
}

// Validate は設定値の範囲を検証します。
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout は正の値である必要があります: %s", c.Timeout)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency は0以上である必要があります: %d", c.Concurrency)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit は0以上である必要があります: %g", c.RateLimit)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level が不正です: %w", err)
	}
	return nil
}
