package safety

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity 以 Levenshtein 距離計算 0~1 的相似度，兩者皆為空字串時為 1
func Similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}
