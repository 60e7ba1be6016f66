package cmd

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-article-enricher/pkg/feed"
	"github.com/shouni/go-article-enricher/pkg/sheet"
)

const defaultFeedOutput = sheet.OutputPrefix + "feed.xlsx"

// フィードURLを保持するフラグ変数
var (
	feedURL    string
	feedOutput string
)

// runParsePipeline は、フィードの取得とパースを実行するメインロジックです。
func runParsePipeline(ctx context.Context, url string, parser *feed.Parser) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, overallTimeout())
	defer cancel()

	parsedFeed, err := parser.FetchAndParse(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得およびパースエラー (URL: %s): %w", url, err)
	}
	return parsedFeed, nil
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "RSS/Atomフィードの記事一覧に、公開日と分類を付与してExcelに保存します",
	Long:  `指定されたURLからRSSまたはAtomフィードを取得し、各記事 (タイトル, リンク) を enrich と同じ処理にかけて新しいExcelファイルに保存します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		processedURL, err := ensureScheme(feedURL)
		if err != nil {
			return fmt.Errorf("URLスキームの処理エラー: %w", err)
		}
		appLogger.Info("処理対象フィード", zap.String("url", processedURL), zap.Duration("timeout", overallTimeout()))

		parser := feed.NewParser(appComponents.Client)
		parsedFeed, err := runParsePipeline(cmd.Context(), processedURL, parser)
		if err != nil {
			return fmt.Errorf("フィード解析パイプラインの実行エラー: %w", err)
		}

		wb, err := sheet.NewWorkbook(feed.NewFeedAdapter(parsedFeed).Inputs())
		if err != nil {
			return err
		}
		defer wb.Close()

		rows, err := runEnrichPipeline(cmd.Context(), wb, appComponents.Pipeline, feedOutput, appConfig.WithSimilarity)
		if err != nil {
			return fmt.Errorf("enrich パイプラインの実行エラー: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "フィードタイトル: %s\n", parsedFeed.Title)
		renderResults(cmd.OutOrStdout(), rows)
		fmt.Fprintf(cmd.OutOrStdout(), "出力ファイル: %s\n", feedOutput)
		return nil
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedURL, "url", "u", "", "解析対象のフィード (RSS/Atom) URL")
	feedCmd.Flags().StringVarP(&feedOutput, "output", "o", defaultFeedOutput, "出力先のExcelファイル")

	feedCmd.MarkFlagRequired("url")
}
