// Package sheet は見出しとURLの一覧をExcelファイルから読み込み、処理結果の列を追記します。
package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/shouni/go-article-enricher/pkg/pipeline"
)

// 列と行の位置 (列は0始まり、行はExcelの1始まり)
const (
	colHeadline = 1 // B列
	colLink     = 2 // C列

	headerRow    = 1
	firstDataRow = 2
)

const (
	HeaderDate           = "Date"
	HeaderClassification = "Classification"
	HeaderSimilarity     = "Similarity"

	// OutputPrefix は出力ファイル名の接頭辞です。
	OutputPrefix = "Updated_"

	defaultSheetName    = "Sheet1"
	similarityPrecision = 4
)

// Workbook は先頭シートを対象とするExcelブックです。
type Workbook struct {
	file  *excelize.File
	sheet string
	rows  [][]string
}

// Open はExcelファイルを開きます。
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("Excelファイル %s を開けませんでした: %w", path, err)
	}
	return fromFile(f)
}

// OpenReader は io.Reader からExcelブックを読み込みます。
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("Excelデータを読み込めませんでした: %w", err)
	}
	return fromFile(f)
}

// NewWorkbook は入力一覧から新しいブックを作成します。列の並びは No, Headline, Link です。
func NewWorkbook(inputs []pipeline.Input) (*Workbook, error) {
	f := excelize.NewFile()

	header := []any{"No", "Headline", "Link"}
	if err := f.SetSheetRow(defaultSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("ヘッダー行の書き込みに失敗しました: %w", err)
	}
	for i, in := range inputs {
		cell, err := excelize.CoordinatesToCellName(1, firstDataRow+i)
		if err != nil {
			return nil, err
		}
		row := []any{i + 1, in.Headline, in.Link}
		if err := f.SetSheetRow(defaultSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("%d行目の書き込みに失敗しました: %w", firstDataRow+i, err)
		}
	}
	return fromFile(f)
}

func fromFile(f *excelize.File) (*Workbook, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		_ = f.Close()
		return nil, errors.New("シートが見つかりません")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("シート %s の読み込みに失敗しました: %w", sheet, err)
	}
	return &Workbook{file: f, sheet: sheet, rows: rows}, nil
}

// SheetName は対象シートの名前を返します。
func (w *Workbook) SheetName() string {
	return w.sheet
}

// Inputs は見出し (B列) とリンク (C列) をデータ行ごとに返します。
// 1行目はヘッダーとして読み飛ばします。空のセルは空文字列になります。
// セルの値は加工せずにそのまま返します。
func (w *Workbook) Inputs() []pipeline.Input {
	if len(w.rows) <= 1 {
		return nil
	}
	inputs := make([]pipeline.Input, 0, len(w.rows)-1)
	for _, row := range w.rows[1:] {
		inputs = append(inputs, pipeline.Input{
			Headline: cellAt(row, colHeadline),
			Link:     cellAt(row, colLink),
		})
	}
	return inputs
}

type appendConfig struct {
	similarity bool
}

// AppendOption は AppendResults の出力列を変更します。
type AppendOption func(*appendConfig)

// WithSimilarityColumn は Similarity 列を追加します。
func WithSimilarityColumn() AppendOption {
	return func(c *appendConfig) {
		c.similarity = true
	}
}

// AppendResults は既存の最も右の列の後ろに Date と Classification の列を追記します。
// results は Inputs と同じ順序・同じ件数である必要があります。既存のセルは変更しません。
func (w *Workbook) AppendResults(results []pipeline.ResultRow, opts ...AppendOption) error {
	cfg := appendConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(w.rows) == 0 {
		return errors.New("ヘッダー行がありません")
	}
	if want := len(w.rows) - 1; len(results) != want {
		return fmt.Errorf("結果の件数 (%d) がデータ行数 (%d) と一致しません", len(results), want)
	}

	start := w.width() + 1 // 1始まりの列番号
	headers := []any{HeaderDate, HeaderClassification}
	if cfg.similarity {
		headers = append(headers, HeaderSimilarity)
	}
	if err := w.setRow(start, headerRow, headers); err != nil {
		return err
	}

	for i, r := range results {
		row := firstDataRow + i
		if err := w.setRow(start, row, []any{r.Date.String(), r.Label.String()}); err != nil {
			return err
		}
		if !cfg.similarity {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(start+2, row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellFloat(w.sheet, cell, r.Similarity, similarityPrecision, 64); err != nil {
			return fmt.Errorf("%s への書き込みに失敗しました: %w", cell, err)
		}
	}
	return nil
}

// SaveAs はブックを指定のパスに保存します。
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("Excelファイル %s の保存に失敗しました: %w", path, err)
	}
	return nil
}

// Close はブックが保持する一時リソースを解放します。
func (w *Workbook) Close() error {
	return w.file.Close()
}

// OutputPath は入力ファイルと同じディレクトリの Updated_<ファイル名> を返します。
func OutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), OutputPrefix+filepath.Base(input))
}

// width は既存の最も右の列の列数を返します。見出しとリンクの列は常に含みます。
func (w *Workbook) width() int {
	width := colLink + 1
	for _, row := range w.rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

func (w *Workbook) setRow(col, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("%s への書き込みに失敗しました: %w", cell, err)
	}
	return nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
