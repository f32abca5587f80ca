package safety

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ingredient-safety/internal/pkg/common"
)

// Remote 外部資料來源（EWG 爬蟲），沒有資料時回傳 false，不回傳錯誤
type Remote interface {
	Fetch(ctx context.Context, name string) (Partial, bool)
}

// Analyzer 成分分析流程：外部查詢 → 人工資料庫 → 啟發式規則
type Analyzer struct {
	catalog *Catalog
	rules   *Rules
	remote  Remote
	workers int
}

// NewAnalyzer 建立分析器；remote 可為 nil，workers 為 1 時逐一處理
func NewAnalyzer(catalog *Catalog, rules *Rules, remote Remote, workers int) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		catalog: catalog,
		rules:   rules,
		remote:  remote,
		workers: workers,
	}
}

// Catalog 取得人工資料庫
func (a *Analyzer) Catalog() *Catalog {
	return a.catalog
}

// SplitIngredients 以逗號、分號、換行切分成分表並轉小寫，保留重複與原順序
func SplitIngredients(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if utf8.RuneCountInString(f) <= 1 {
			continue
		}
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}

// Analyze 分析整份成分表；輸出順序與輸入一致，空輸入回傳空切片
func (a *Analyzer) Analyze(ctx context.Context, text string) []common.IngredientRecord {
	tokens := SplitIngredients(text)
	records := make([]common.IngredientRecord, len(tokens))
	if len(tokens) == 0 {
		return records
	}

	start := time.Now()

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, token := range tokens {
		i, token := i, token
		g.Go(func() error {
			records[i] = a.resolve(ctx, token)
			return nil
		})
	}
	_ = g.Wait()

	common.LogInfo("成分分析完成",
		zap.Int("ingredients", len(records)),
		zap.Int("workers", a.workers),
		zap.Duration("耗時", time.Since(start)),
	)
	return records
}

// Lookup 查詢單一成分
func (a *Analyzer) Lookup(ctx context.Context, name string) (common.IngredientRecord, bool) {
	token := strings.ToLower(strings.TrimSpace(name))
	if utf8.RuneCountInString(token) <= 1 {
		return common.IngredientRecord{}, false
	}
	return a.resolve(ctx, token), true
}

// resolve 逐欄位依優先順序合併三個來源
func (a *Analyzer) resolve(ctx context.Context, token string) common.IngredientRecord {
	var remote Partial
	if a.remote != nil {
		if p, ok := a.remote.Fetch(ctx, token); ok {
			remote = p
		}
	}

	var curated Partial
	entry, found := a.catalog.Lookup(token)
	if found {
		curated = entry.partial()
	}

	heuristic := a.rules.partial(token)

	score := ClampScore(firstValid(remote.Score, curated.Score, heuristic.Score).Value)
	heuristic.Reason = Some(DefaultConcern(score))

	record := common.IngredientRecord{
		Name:             titleCase(token),
		Function:         firstValid(remote.Function, curated.Function, heuristic.Function).Value,
		EWGScore:         score,
		SafetyLevel:      SafetyLevelFor(score),
		ReasonForConcern: firstValid(remote.Reason, curated.Reason, heuristic.Reason).Value,
		CommonUse:        firstValid(remote.CommonUse, curated.CommonUse, heuristic.CommonUse).Value,
	}

	if found {
		record.ScientificName = entry.ScientificName
		record.Benefits = common.JoinNonEmpty(entry.Benefits)
		record.Restrictions = common.JoinNonEmpty(entry.Restrictions)
		record.NaturalAlternatives = common.JoinNonEmpty(entry.NaturalAlternatives)
		record.ResearchLinks = common.JoinNonEmpty(entry.ResearchLinks)
	}

	common.LogDebug("成分判斷",
		zap.String("ingredient", token),
		zap.Bool("remote", remote.Score.Valid || remote.Function.Valid),
		zap.Bool("curated", found),
		zap.Int("score", score),
	)
	return record
}

// titleCase Caser 有狀態，不能跨 goroutine 共用
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// Summarize 統計各安全等級數量與平均分數
func Summarize(records []common.IngredientRecord) common.AnalysisSummary {
	summary := common.AnalysisSummary{
		Total: len(records),
		Levels: map[common.SafetyLevel]int{
			common.SafetyLow:      0,
			common.SafetyModerate: 0,
			common.SafetyHigh:     0,
		},
	}
	if len(records) == 0 {
		return summary
	}

	total := 0
	for _, r := range records {
		summary.Levels[r.SafetyLevel]++
		total += r.EWGScore
		if r.EWGScore > summary.HighestScore {
			summary.HighestScore = r.EWGScore
			summary.HighestConcern = r.Name
		}
	}
	summary.AverageScore = math.Round(float64(total)/float64(len(records))*100) / 100
	return summary
}
