package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-article-enricher/pkg/dates"
	"github.com/shouni/go-article-enricher/pkg/pipeline"
)

var (
	inspectURL      string
	inspectHeadline string
)

// inspection は1記事の診断結果です。
type inspection struct {
	Row        pipeline.ResultRow
	Candidates []dates.Candidate
	FetchErr   error
}

// runInspectPipeline は1件の記事を取得し、日付候補と処理結果を返します。
// 取得に失敗した場合も、空のHTMLとして処理した結果を返します。
func runInspectPipeline(ctx context.Context, fetcher pipeline.Fetcher, engine *dates.Engine, p *pipeline.Pipeline, in pipeline.Input) inspection {
	ctx, cancel := context.WithTimeout(ctx, overallTimeout())
	defer cancel()

	var res inspection
	body, err := fetcher.FetchBytes(ctx, in.Link)
	if err != nil {
		res.FetchErr = err
	}

	html := string(body)
	if page, err := dates.NewPage(html); err == nil {
		res.Candidates = engine.Candidates(page)
	}
	res.Row = p.Process(in, html)
	return res
}

func renderInspection(w io.Writer, res inspection) {
	if res.FetchErr != nil {
		fmt.Fprintf(w, "取得エラー: %v\n", res.FetchErr)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Tier", "Candidate", "Selected"})
	for i, c := range res.Candidates {
		selected := ""
		if c.Source == res.Row.DateSource {
			selected = "*"
		}
		t.AppendRow(table.Row{fmt.Sprintf("%d %s", i+1, c.Source), c.Value, selected})
	}
	t.Render()

	fmt.Fprintf(w, "Date: %s\n", res.Row.Date.String())
	fmt.Fprintf(w, "Classification: %s\n", res.Row.Label)
	fmt.Fprintf(w, "Similarity: %.3f\n", res.Row.Similarity)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "1件の記事について、日付の候補と分類結果を表示します",
	Long:  `指定されたURLの記事を取得し、各段階の日付候補、採用された日付、分類、見出しとの類似度を表示します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		processedURL, err := ensureScheme(inspectURL)
		if err != nil {
			return fmt.Errorf("URLスキームの処理エラー: %w", err)
		}
		appLogger.Debug("処理対象URL", zap.String("url", processedURL), zap.Duration("timeout", overallTimeout()))

		res := runInspectPipeline(cmd.Context(), appComponents.Client, appComponents.Engine, appComponents.Pipeline,
			pipeline.Input{Headline: inspectHeadline, Link: processedURL})
		renderInspection(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectURL, "url", "u", "", "診断対象の記事URL")
	inspectCmd.Flags().StringVar(&inspectHeadline, "headline", "", "類似度の計算に使う見出し")

	inspectCmd.MarkFlagRequired("url")
}
