// Package similarity は見出しと本文の TF-IDF コサイン類似度を計算します。
// スコアは参考値であり、日付や分類の結果には影響しません。
package similarity

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes はトークンとして扱う最小の文字数です。
const minTokenRunes = 2

// Score は2つの文字列だけで TF-IDF を学習し、両者のコサイン類似度を [0,1] で返します。
// どちらかが空、またはトークンが得られない場合は 0 を返します。
func Score(headline, article string) float64 {
	if strings.TrimSpace(headline) == "" || strings.TrimSpace(article) == "" {
		return 0
	}

	docs := [][]string{Tokenize(headline), Tokenize(article)}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0
	}

	idf := inverseDocumentFrequency(docs)
	a := weigh(docs[0], idf)
	b := weigh(docs[1], idf)

	score := cosine(a, b)
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(1, score))
}

// Tokenize は小文字化した文字列を、英数字とアンダースコアの連続 (2文字以上) に分割します。
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// inverseDocumentFrequency は平滑化した IDF (ln((1+n)/(1+df)) + 1) を返します。
func inverseDocumentFrequency(docs [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}
	return idf
}

// weigh は生の出現回数に IDF を掛け、L2 正規化したベクトルを返します。
func weigh(doc []string, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(doc))
	for _, term := range doc {
		vec[term]++
	}

	var norm float64
	for term, tf := range vec {
		w := tf * idf[term]
		vec[term] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}
