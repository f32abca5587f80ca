package faq

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"ingredient-safety/internal/pkg/common"
)

//go:embed data/topics.yaml
var builtinTopics []byte

// Topic 問題主題與對應關鍵字
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Related  []string `yaml:"related"`
	Answer   string   `yaml:"answer"`
}

// Answer 問答結果
type Answer struct {
	Answer        string   `json:"answer"`
	Matched       bool     `json:"matched"`
	Topic         string   `json:"topic,omitempty"`
	RelatedTopics []string `json:"relatedTopics"`
}

// Responder 以關鍵字比對的固定問答，依主題順序取第一個命中者
type Responder struct {
	topics   []Topic
	fallback string
}

type topicsDocument struct {
	Fallback string  `yaml:"fallback"`
	Topics   []Topic `yaml:"topics"`
}

// NewResponder 使用內建主題
func NewResponder() (*Responder, error) {
	return ParseResponder(builtinTopics)
}

// ParseResponder 解析 YAML 主題表
func ParseResponder(data []byte) (*Responder, error) {
	var doc topicsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse faq topics: %w", err)
	}
	if strings.TrimSpace(doc.Fallback) == "" {
		return nil, fmt.Errorf("faq topics: fallback answer is empty")
	}

	r := &Responder{fallback: strings.TrimSpace(doc.Fallback)}
	for _, t := range doc.Topics {
		if t.Name == "" || len(t.Keywords) == 0 {
			return nil, fmt.Errorf("faq topic %q has no keywords", t.Name)
		}
		for i, k := range t.Keywords {
			t.Keywords[i] = strings.ToLower(k)
		}
		t.Answer = strings.TrimSpace(t.Answer)
		r.topics = append(r.topics, t)
	}
	return r, nil
}

// Answer 回答問題，空白問題回傳驗證錯誤
func (r *Responder) Answer(question string) (Answer, error) {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return Answer{}, common.NewValidationError("question is required")
	}

	for _, t := range r.topics {
		for _, k := range t.Keywords {
			if strings.Contains(q, k) {
				return Answer{
					Answer:        t.Answer,
					Matched:       true,
					Topic:         t.Name,
					RelatedTopics: append([]string{}, t.Related...),
				}, nil
			}
		}
	}

	return Answer{
		Answer:        r.fallback,
		RelatedTopics: r.Topics(),
	}, nil
}

// Topics 所有主題名稱
func (r *Responder) Topics() []string {
	names := make([]string, len(r.topics))
	for i, t := range r.topics {
		names[i] = t.Name
	}
	return names
}
