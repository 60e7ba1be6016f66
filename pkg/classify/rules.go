package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule は分類規則の1行です。本文が Subject を含み、かつ Signals のいずれかを含む場合に Label となります。
type Rule struct {
	Label   Label    `yaml:"label"`
	Subject string   `yaml:"subject"`
	Signals []string `yaml:"signals"`
}

// DefaultRules は既定の規則表を優先順に返します。
// どの規則にも一致しない場合は Miscellaneous です。
func DefaultRules() []Rule {
	return []Rule{
		{Label: ProIndia, Subject: "india", Signals: []string{"positive", "success", "support", "development"}},
		{Label: AntiChina, Subject: "china", Signals: []string{"sanction", "tariff", "ban", "conflict", "tension"}},
		{Label: AntiPakistan, Subject: "pakistan", Signals: []string{"polio", "terror", "crisis", "restriction", "attack"}},
	}
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules はYAMLファイルから規則表を読み込みます。
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("規則ファイルの読み込みに失敗しました: %w", err)
	}
	return ParseRules(data)
}

// ParseRules はYAMLの規則表を解析して検証します。
//
//	rules:
//	  - label: Pro-India
//	    subject: india
//	    signals: [positive, success]
func ParseRules(data []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("規則ファイルの解析に失敗しました: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("規則が1件も定義されていません")
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, r := range file.Rules {
		if !r.Label.Valid() {
			return nil, fmt.Errorf("規則 %d: 未知のラベルです: %q", i+1, r.Label)
		}
		if r.Label == Miscellaneous {
			return nil, fmt.Errorf("規則 %d: %s は既定値のため規則に指定できません", i+1, Miscellaneous)
		}
		n := r.normalize()
		if n.Subject == "" {
			return nil, fmt.Errorf("規則 %d: subject が空です", i+1)
		}
		if len(n.Signals) == 0 {
			return nil, fmt.Errorf("規則 %d: signals が空です", i+1)
		}
		rules = append(rules, n)
	}
	return rules, nil
}

// normalize は Subject と Signals を小文字化して前後の空白を除きます。空の Signals は取り除きます。
func (r Rule) normalize() Rule {
	signals := make([]string, 0, len(r.Signals))
	for _, s := range r.Signals {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			signals = append(signals, s)
		}
	}
	return Rule{Label: r.Label, Subject: strings.ToLower(strings.TrimSpace(r.Subject)), Signals: signals}
}
