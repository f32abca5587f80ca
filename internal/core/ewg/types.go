package ewg

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// scrapeRequest 送往爬蟲服務的請求
type scrapeRequest struct {
	Query  string `json:"query"`
	Source string `json:"source"`
}

// scrapeResponse 爬蟲服務回應，結構化資料與 HTML 擇一
type scrapeResponse struct {
	Data *[]scrapedProduct `json:"data"`
	HTML *string           `json:"html"`
}

// scrapedProduct 結構化回應中的單筆產品
type scrapedProduct struct {
	Name           string    `json:"name"`
	Score          scoreText `json:"score"`
	Concerns       []string  `json:"concerns"`
	Ingredients    []string  `json:"ingredients"`
	Category       string    `json:"category"`
	Certifications []string  `json:"certifications"`
}

// scoreText 分數欄位可能是數字或文字
type scoreText string

// UnmarshalJSON 接受數字、字串或 null
func (s *scoreText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = scoreText(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if f, err := n.Float64(); err == nil {
		*s = scoreText(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	*s = scoreText(n.String())
	return nil
}

// Listing 從任一種回應擷取出的原始文字欄位，也是快取的內容
type Listing struct {
	ScoreText string `json:"scoreText,omitempty"`
	Concerns  string `json:"concerns,omitempty"`
	Function  string `json:"function,omitempty"`
	Use       string `json:"use,omitempty"`
}
