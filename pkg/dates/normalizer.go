package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	minYear = 1900
	maxYear = 2100
)

var (
	// 「Published:」「Updated on」などの前置きラベル
	reLeadingLabel = regexp.MustCompile(`(?i)^(?:(?:last\s+)?(?:published|updated|modified|posted|dated|date)\s*(?:on|at)?\s*[:|\-]?\s*)+`)
	// 先頭の曜日
	reLeadingWeekday = regexp.MustCompile(`(?i)^(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?,?\s+`)
	// 序数接尾辞 (15th → 15)
	reOrdinal = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:st|nd|rd|th)\b`)
	// 省略形の月名の後ろのピリオド (Mar. → Mar)
	reMonthDot = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\.`)
	// 日 月名 年 の区切り文字を空白に統一 (15-Mar-2024, 15 March, 2024 → 15 Mar 2024)
	reDayMonthYear = regexp.MustCompile(`(?i)\b(\d{1,2})[\s\-/.]+(` + monthName + `)[\s\-/.,]+(\d{4}|\d{2})\b`)
	// dateparse は "Sept" を月名として解釈しない
	reSept = regexp.MustCompile(`(?i)\bsept\b`)
	// 数字のみの値。8桁 (YYYYMMDD) 以外の裸の年やエポック秒は日付として扱わない
	reDigitsOnly = regexp.MustCompile(`^\d+$`)
)

const compactDateLayout = "20060102"

// DateparseNormalizer は github.com/araddon/dateparse を用いた Normalizer の実装です。
type DateparseNormalizer struct {
	location *time.Location
}

// NewDateparseNormalizer は DateparseNormalizer を生成します。
// タイムゾーンを持たない日付は UTC として解釈します。
func NewDateparseNormalizer() *DateparseNormalizer {
	return &DateparseNormalizer{location: time.UTC}
}

// Normalize は日付文字列を暦日に変換します。文字列全体が解析できない場合は、
// 文字列中に埋め込まれた最初の日付表現を解析します。
func (n *DateparseNormalizer) Normalize(value string, order Order) (Date, bool) {
	cleaned := CleanDateString(value)
	if cleaned == "" {
		return Date{}, false
	}
	if reDigitsOnly.MatchString(cleaned) {
		return n.parseCompact(cleaned)
	}

	if d, ok := n.parse(cleaned, order); ok {
		return d, true
	}

	if embedded := embeddedDatePattern.FindString(cleaned); embedded != "" && embedded != cleaned {
		return n.parse(CleanDateString(embedded), order)
	}
	return Date{}, false
}

func (n *DateparseNormalizer) parse(value string, order Order) (d Date, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d, ok = Date{}, false
		}
	}()

	t, err := dateparse.ParseIn(value, n.location,
		dateparse.PreferMonthFirst(order == MonthFirst),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return Date{}, false
	}
	if t.Year() < minYear || t.Year() > maxYear {
		return Date{}, false
	}
	return NewDate(t), true
}

// parseCompact は YYYYMMDD 形式の8桁だけを受け付けます。
func (n *DateparseNormalizer) parseCompact(value string) (Date, bool) {
	if len(value) != len(compactDateLayout) {
		return Date{}, false
	}
	t, err := time.ParseInLocation(compactDateLayout, value, n.location)
	if err != nil || t.Year() < minYear || t.Year() > maxYear {
		return Date{}, false
	}
	return NewDate(t), true
}

// CleanDateString は日付文字列から解析の妨げになる装飾を取り除きます。
func CleanDateString(value string) string {
	s := strings.Join(strings.Fields(value), " ")
	s = reLeadingLabel.ReplaceAllString(s, "")
	s = reLeadingWeekday.ReplaceAllString(s, "")
	s = reOrdinal.ReplaceAllString(s, "$1")
	s = reMonthDot.ReplaceAllString(s, "$1")
	s = reSept.ReplaceAllString(s, "Sep")
	s = reDayMonthYear.ReplaceAllString(s, "$1 $2 $3")
	return strings.TrimSpace(s)
}
