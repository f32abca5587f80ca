package ewg

import (
	"regexp"
	"strconv"

	"ingredient-safety/internal/core/safety"
)

var (
	numberPattern = regexp.MustCompile(`\d+`)

	keywordScores = []struct {
		pattern *regexp.Regexp
		score   int
	}{
		{regexp.MustCompile(`(?i)low|safe|minimal|good`), 2},
		{regexp.MustCompile(`(?i)moderate|medium|average`), 5},
		{regexp.MustCompile(`(?i)high|unsafe|dangerous|poor`), 8},
	}
)

// ParseScore 解析分數文字：先取第一個整數，其次比對風險關鍵字，都沒有則回傳 false
func ParseScore(text string) (int, bool) {
	if m := numberPattern.FindString(text); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil {
			// 位數過長，視為超出上限
			return safety.MaxScore, true
		}
		return safety.ClampScore(n), true
	}
	for _, k := range keywordScores {
		if k.pattern.MatchString(text) {
			return k.score, true
		}
	}
	return 0, false
}
