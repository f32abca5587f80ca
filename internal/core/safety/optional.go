package safety

import "strings"

// Optional 帶有存在旗標的欄位值，零值代表「沒有資料」
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some 建立有值的欄位
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// SomeText 非空白字串才視為有值
func SomeText(s string) Optional[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return Optional[string]{}
	}
	return Some(s)
}

// firstValid 依優先順序取第一個有值的欄位
func firstValid[T any](candidates ...Optional[T]) Optional[T] {
	for _, c := range candidates {
		if c.Valid {
			return c
		}
	}
	return Optional[T]{}
}

// Partial 單一來源對成分的部分判斷
type Partial struct {
	Function  Optional[string]
	Score     Optional[int]
	Reason    Optional[string]
	CommonUse Optional[string]
}
