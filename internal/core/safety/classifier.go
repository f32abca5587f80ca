package safety

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"ingredient-safety/internal/pkg/common"
)

const (
	MinScore = 1
	MaxScore = 10
)

// ScoreTier 同一分數的一組規則，依序比對
type ScoreTier struct {
	Name     string
	Score    int
	patterns []*regexp.Regexp
}

// KeywordGroup 類別與其關鍵字
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Rules 啟發式分類規則，編譯後不再變動
type Rules struct {
	tiers            []ScoreTier
	defaultScore     int
	categories       []KeywordGroup
	fallbackCategory string
	uses             []KeywordGroup
	fallbackUse      string
}

type rulesDocument struct {
	DefaultScore int `yaml:"default_score"`
	ScoreTiers   []struct {
		Name     string   `yaml:"name"`
		Score    int      `yaml:"score"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"score_tiers"`
	FallbackCategory string         `yaml:"fallback_category"`
	Categories       []KeywordGroup `yaml:"categories"`
	FallbackUse      string         `yaml:"fallback_use"`
	Uses             []KeywordGroup `yaml:"uses"`
}

// LoadRules 載入分類規則，path 為空時使用內建資料
func LoadRules(path string) (*Rules, error) {
	data, err := readData(path, "rules.yaml")
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules 解析並編譯 YAML 規則
func ParseRules(data []byte) (*Rules, error) {
	var doc rulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if doc.DefaultScore < MinScore || doc.DefaultScore > MaxScore {
		return nil, fmt.Errorf("default score %d out of range", doc.DefaultScore)
	}

	r := &Rules{
		defaultScore:     doc.DefaultScore,
		categories:       lowerKeywords(doc.Categories),
		fallbackCategory: doc.FallbackCategory,
		uses:             lowerKeywords(doc.Uses),
		fallbackUse:      doc.FallbackUse,
	}
	for _, t := range doc.ScoreTiers {
		if t.Score < MinScore || t.Score > MaxScore {
			return nil, fmt.Errorf("tier %q: score %d out of range", t.Name, t.Score)
		}
		tier := ScoreTier{Name: t.Name, Score: t.Score}
		for _, p := range t.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("tier %q: %w", t.Name, err)
			}
			tier.patterns = append(tier.patterns, re)
		}
		r.tiers = append(r.tiers, tier)
	}
	return r, nil
}

func lowerKeywords(groups []KeywordGroup) []KeywordGroup {
	out := make([]KeywordGroup, len(groups))
	for i, g := range groups {
		kws := make([]string, len(g.Keywords))
		for j, k := range g.Keywords {
			kws[j] = strings.ToLower(k)
		}
		out[i] = KeywordGroup{Name: g.Name, Keywords: kws}
	}
	return out
}

// DefaultScore 依序比對各分數層級，第一個命中的層級決定分數
func (r *Rules) DefaultScore(name string) int {
	if tier, ok := r.MatchTier(name); ok {
		return tier.Score
	}
	return r.defaultScore
}

// MatchTier 回傳第一個命中的層級
func (r *Rules) MatchTier(name string) (ScoreTier, bool) {
	for _, tier := range r.tiers {
		for _, re := range tier.patterns {
			if re.MatchString(name) {
				return tier, true
			}
		}
	}
	return ScoreTier{}, false
}

// Classify 判斷成分功能類別
func (r *Rules) Classify(name string) string {
	return firstKeywordMatch(r.categories, name, r.fallbackCategory)
}

// CommonUse 判斷常見用途
func (r *Rules) CommonUse(name string) string {
	return firstKeywordMatch(r.uses, name, r.fallbackUse)
}

func firstKeywordMatch(groups []KeywordGroup, name, fallback string) string {
	lower := strings.ToLower(name)
	for _, g := range groups {
		for _, kw := range g.Keywords {
			if kw != "" && strings.Contains(lower, kw) {
				return g.Name
			}
		}
	}
	return fallback
}

// partial 啟發式判斷，每個欄位都有值；關注原因留待最終分數決定
func (r *Rules) partial(name string) Partial {
	return Partial{
		Function:  Some(r.Classify(name)),
		Score:     Some(r.DefaultScore(name)),
		CommonUse: Some(r.CommonUse(name)),
	}
}

// ClampScore 將分數限制在 1~10
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// SafetyLevelFor 分數轉安全等級：≤2 低、≤6 中、其餘高
func SafetyLevelFor(score int) common.SafetyLevel {
	switch {
	case score <= 2:
		return common.SafetyLow
	case score <= 6:
		return common.SafetyModerate
	default:
		return common.SafetyHigh
	}
}

// DefaultConcern 沒有其他來源說明時，依分數給出的關注原因
func DefaultConcern(score int) string {
	switch SafetyLevelFor(score) {
	case common.SafetyLow:
		return "Generally considered safe with minimal health concerns"
	case common.SafetyModerate:
		return "Moderate concern; may cause irritation or sensitivity in some individuals"
	default:
		return "High concern; linked to potential health risks such as allergies, irritation or endocrine disruption"
	}
}
