package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-article-enricher/pkg/pipeline"
	"github.com/shouni/go-article-enricher/pkg/sheet"
)

// コマンドラインフラグ変数を定義
var (
	inputPath  string // --input 入力のExcelファイル
	outputPath string // --output 出力先。省略時は Updated_<入力ファイル名>
)

// runEnrichPipeline は、ブックの全行を処理し、結果の列を追記して保存するメインロジックです。
func runEnrichPipeline(ctx context.Context, wb *sheet.Workbook, p *pipeline.Pipeline, output string, withSimilarity bool) ([]pipeline.ResultRow, error) {
	inputs := pipeline.CollectInputs(wb)
	appLogger.Info("処理を開始します", zap.Int("rows", len(inputs)))

	rows := p.Run(ctx, inputs)

	var opts []sheet.AppendOption
	if withSimilarity {
		opts = append(opts, sheet.WithSimilarityColumn())
	}
	if err := wb.AppendResults(rows, opts...); err != nil {
		return nil, fmt.Errorf("結果の書き込みエラー: %w", err)
	}
	if err := wb.SaveAs(output); err != nil {
		return nil, err
	}

	appLogger.Info("結果を保存しました", zap.String("path", output))
	return rows, nil
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Excelの見出しとURLの一覧に、公開日と分類の列を追加します",
	Long: `Excelファイルの先頭シート (B列: 見出し, C列: URL) の各行について記事を取得し、
公開日 (Date) と分類 (Classification) の列を追記したファイルを保存します。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		wb, err := sheet.Open(inputPath)
		if err != nil {
			return err
		}
		defer wb.Close()

		output := outputPath
		if output == "" {
			output = sheet.OutputPath(inputPath)
		}

		rows, err := runEnrichPipeline(ctx, wb, appComponents.Pipeline, output, appConfig.WithSimilarity)
		if err != nil {
			return fmt.Errorf("enrich パイプラインの実行エラー: %w", err)
		}

		renderResults(cmd.OutOrStdout(), rows)
		fmt.Fprintf(cmd.OutOrStdout(), "出力ファイル: %s\n", output)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVarP(&inputPath, "input", "i", "", "入力のExcelファイル (.xlsx)")
	enrichCmd.Flags().StringVarP(&outputPath, "output", "o", "", "出力先のExcelファイル (省略時は Updated_<入力ファイル名>)")

	enrichCmd.MarkFlagRequired("input")
}
