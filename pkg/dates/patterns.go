package dates

import "regexp"

// monthName は英語の月名 (完全形と省略形) に一致します。
const monthName = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

const (
	// 15 March 2024, 15th Mar, 2024, 15-Mar-24
	dayMonthYearPattern = `\b\d{1,2}(?:\s*(?:st|nd|rd|th))?[\s\-/.]+(?:` + monthName + `)\.?[\s\-/.,]*(?:\d{4}|\d{2})\b`
	// March 15, 2024
	monthDayYearPattern = `\b(?:` + monthName + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`
	// 15/03/2024, 15-03-24
	numericDatePattern = `\b\d{1,2}[/-]\d{1,2}[/-](?:\d{4}|\d{2})\b`
	// 2024-03-15 (正規化時の埋め込み日付のみ)
	isoDatePattern = `\b\d{4}-\d{2}-\d{2}\b`
)

var (
	// freeTextDatePattern は可視テキスト中の日付表現です。年だけの表現には一致しません。
	freeTextDatePattern = regexp.MustCompile(`(?i)` + dayMonthYearPattern + `|` + monthDayYearPattern + `|` + numericDatePattern)

	// embeddedDatePattern は正規化できなかった候補文字列から日付部分を取り出すためのパターンです。
	embeddedDatePattern = regexp.MustCompile(`(?i)` + isoDatePattern + `|` + dayMonthYearPattern + `|` + monthDayYearPattern + `|` + numericDatePattern)

	// inlineScriptDatePattern はスクリプト中の datePublished 風のキーと値の組です。
	inlineScriptDatePattern = regexp.MustCompile(`(?i)["']?\b(?:datePublished|publishDate|publishedAt|published_at|pubDate)\b["']?\s*[:=]\s*["']([^"']+)["']`)
)
