package common

// SafetyLevel 安全等級，由分數推導
type SafetyLevel string

const (
	SafetyLow      SafetyLevel = "Low"
	SafetyModerate SafetyLevel = "Moderate"
	SafetyHigh     SafetyLevel = "High"
)

// IngredientRecord 單一成分的分析結果，每次分析重新建立
type IngredientRecord struct {
	Name                string      `json:"name"`
	Function            string      `json:"function"`
	EWGScore            int         `json:"ewgScore"`
	SafetyLevel         SafetyLevel `json:"safetyLevel"`
	ReasonForConcern    string      `json:"reasonForConcern"`
	CommonUse           string      `json:"commonUse"`
	ScientificName      string      `json:"scientificName,omitempty"`
	Benefits            string      `json:"benefits,omitempty"`
	Restrictions        string      `json:"restrictions,omitempty"`
	NaturalAlternatives string      `json:"naturalAlternatives,omitempty"`
	ResearchLinks       string      `json:"researchLinks,omitempty"`
}

// AnalysisSummary 整份成分表的統計
type AnalysisSummary struct {
	Total          int                 `json:"total"`
	Levels         map[SafetyLevel]int `json:"levels"`
	AverageScore   float64             `json:"averageScore"`
	HighestConcern string              `json:"highestConcern,omitempty"`
	HighestScore   int                 `json:"highestScore,omitempty"`
}

// AnalyzeRequest 成分分析請求
type AnalyzeRequest struct {
	Text *string `json:"text" binding:"required"`
}

// AnalyzeResponse 成分分析響應
type AnalyzeResponse struct {
	Ingredients []IngredientRecord `json:"ingredients"`
	Summary     AnalysisSummary    `json:"summary"`
}

// LabelScanRequest 標籤照片辨識請求
// image: data URI 或圖片 URL
type LabelScanRequest struct {
	Image string `json:"image" binding:"required"`
}

// LabelScanResponse 標籤照片辨識響應
type LabelScanResponse struct {
	RawText     string             `json:"raw_text"`
	CleanedText string             `json:"cleaned_text"`
	Ingredients []IngredientRecord `json:"ingredients"`
	Summary     AnalysisSummary    `json:"summary"`
}

// FAQRequest 健康問答請求
type FAQRequest struct {
	Question string `json:"question" binding:"required"`
}
