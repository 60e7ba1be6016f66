// Package classify は記事本文をキーワード規則で1つのラベルに分類します。
//
// 一致判定は大文字小文字を区別しない部分文字列の包含です。単語境界は考慮しないため、
// "machina" は "china" を含むものとして扱われます。
package classify

import "strings"

// Label は分類結果です。値は閉じた集合です。
type Label string

const (
	ProIndia      Label = "Pro-India"
	AntiChina     Label = "Anti-China"
	AntiPakistan  Label = "Anti-Pakistan"
	Miscellaneous Label = "Miscellaneous"
)

// Labels はすべてのラベルを返します。
func Labels() []Label {
	return []Label{ProIndia, AntiChina, AntiPakistan, Miscellaneous}
}

// Valid はラベルが既知の値であれば true を返します。
func (l Label) Valid() bool {
	switch l {
	case ProIndia, AntiChina, AntiPakistan, Miscellaneous:
		return true
	}
	return false
}

func (l Label) String() string {
	return string(l)
}

// Classifier は規則を優先順に評価し、最初に一致した規則のラベルを返します。
type Classifier struct {
	rules []Rule
}

// New は Classifier を生成します。rules が空の場合は DefaultRules を使います。
// 規則は小文字に正規化され、subject または signals が空の規則は無視されます。
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if n := r.normalize(); n.Subject != "" && len(n.Signals) > 0 {
			normalized = append(normalized, n)
		}
	}
	return &Classifier{rules: normalized}
}

// Classify は本文を分類します。空の本文は Miscellaneous です。
func (c *Classifier) Classify(text string) Label {
	if text == "" {
		return Miscellaneous
	}
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		if r.matches(lower) {
			return r.Label
		}
	}
	return Miscellaneous
}

// Rules は評価順の規則を返します。
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

func (r Rule) matches(lower string) bool {
	if !strings.Contains(lower, r.Subject) {
		return false
	}
	for _, s := range r.Signals {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
