package safety

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"ingredient-safety/internal/pkg/common"
)

// DefaultFuzzyThreshold 模糊比對必須「超過」此相似度才算命中
const DefaultFuzzyThreshold = 0.8

// CuratedEntry 人工整理的成分資料
type CuratedEntry struct {
	Name                string   `yaml:"name"`
	BaseScore           int      `yaml:"base_score"`
	Category            string   `yaml:"category"`
	Concerns            []string `yaml:"concerns"`
	Benefits            []string `yaml:"benefits"`
	ScientificName      string   `yaml:"scientific_name"`
	Restrictions        []string `yaml:"restrictions"`
	NaturalAlternatives []string `yaml:"natural_alternatives"`
	ResearchLinks       []string `yaml:"research_links"`
}

// partial 轉為合併用的部分判斷；資料庫沒有常見用途欄位
func (e CuratedEntry) partial() Partial {
	return Partial{
		Function: SomeText(e.Category),
		Score:    Some(ClampScore(e.BaseScore)),
		Reason:   SomeText(common.JoinNonEmpty(e.Concerns)),
	}
}

// Catalog 啟動時載入一次的唯讀成分資料庫，可同時讀取
type Catalog struct {
	entries   []CuratedEntry
	index     map[string]int
	threshold float64
}

type catalogDocument struct {
	Entries []CuratedEntry `yaml:"entries"`
}

// LoadCatalog 載入成分資料庫，path 為空時使用內建資料
func LoadCatalog(path string, threshold float64) (*Catalog, error) {
	data, err := readData(path, "curated.yaml")
	if err != nil {
		return nil, fmt.Errorf("load curated catalog: %w", err)
	}
	return ParseCatalog(data, threshold)
}

// ParseCatalog 解析 YAML 成分資料
func ParseCatalog(data []byte, threshold float64) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse curated catalog: %w", err)
	}
	return NewCatalog(doc.Entries, threshold)
}

// NewCatalog 以宣告順序建立資料庫
func NewCatalog(entries []CuratedEntry, threshold float64) (*Catalog, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("fuzzy threshold %.2f out of range", threshold)
	}

	c := &Catalog{
		entries:   make([]CuratedEntry, 0, len(entries)),
		index:     make(map[string]int, len(entries)),
		threshold: threshold,
	}
	for i, e := range entries {
		key := normalizeName(e.Name)
		if key == "" {
			return nil, fmt.Errorf("curated entry %d has no name", i)
		}
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("duplicate curated entry %q", key)
		}
		if e.BaseScore < MinScore || e.BaseScore > MaxScore {
			return nil, fmt.Errorf("curated entry %q: base score %d out of range", key, e.BaseScore)
		}
		e.Name = key
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Lookup 先精確比對，再以最高相似度模糊比對；平手時取宣告順序較前者
func (c *Catalog) Lookup(name string) (CuratedEntry, bool) {
	key := normalizeName(name)
	if i, ok := c.index[key]; ok {
		return c.entries[i], true
	}

	best, bestScore := -1, 0.0
	for i, e := range c.entries {
		if s := Similarity(key, e.Name); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best >= 0 && bestScore > c.threshold {
		return c.entries[best], true
	}
	return CuratedEntry{}, false
}

// Names 依宣告順序列出所有成分名稱
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Len 資料筆數
func (c *Catalog) Len() int {
	return len(c.entries)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
