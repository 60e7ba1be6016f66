// Package dates は、記事HTMLから公開日を推定する段階的なヒューリスティック探索を提供します。
//
// 探索は優先順位の固定された戦略の列で構成されます。各戦略は候補文字列を1つ返し、
// 日付正規化に成功した最初の候補が結果となります。それ以降の戦略は評価されません。
package dates

import (
	"fmt"
	"time"
)

// Source は候補を生成した戦略の種別です。
type Source string

const (
	SourceMetaTag            Source = "meta-tag"
	SourceStructuredData     Source = "structured-data"
	SourceTimeElement        Source = "time-element"
	SourceAttributeHeuristic Source = "attribute-heuristic"
	SourceInlineScript       Source = "inline-script"
	SourceFreeText           Source = "free-text-regex"
)

// Order は日と月の並び順のヒントです。
type Order int

const (
	// MonthFirst は曖昧な数値日付を月/日/年として解釈します。
	MonthFirst Order = iota
	// DayFirst は曖昧な数値日付を日/月/年として解釈します。
	DayFirst
)

// Date は時刻を持たない暦日です。ゼロ値は「日付なし」を表します。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate は time.Time から暦日を取り出します。タイムゾーン変換は行いません。
func NewDate(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// IsZero は日付が存在しない場合に true を返します。
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String は日/月/年 (DD/MM/YYYY) 形式で返します。日付なしの場合は空文字列です。
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// Time は UTC の0時として time.Time を返します。
func (d Date) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Candidate は戦略が見つけた未検証の日付文字列です。
type Candidate struct {
	Value  string
	Source Source
}

// Result は探索の結果です。
type Result struct {
	Date      Date
	Candidate Candidate
}
