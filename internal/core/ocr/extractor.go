package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"ingredient-safety/internal/infrastructure/config"
	"ingredient-safety/internal/pkg/common"
)

// ErrDisabled 未設定 OpenRouter 時的文字辨識錯誤
var ErrDisabled = errors.New("ocr is disabled")

const extractPrompt = "Read the cosmetic product label in this image. " +
	"Return only the ingredient list exactly as printed, in the original order, " +
	"separated by commas. Do not add explanations or translate anything."

// Extractor 從標籤照片取出文字
type Extractor interface {
	// ExtractText 回傳照片中的原始文字
	ExtractText(ctx context.Context, imageData string) (string, error)

	// Enabled 是否可用
	Enabled() bool
}

// OpenRouterExtractor 以 OpenRouter 視覺模型辨識標籤文字
type OpenRouterExtractor struct {
	cfg    config.OpenRouterConfig
	client *resty.Client
}

// contentPart 多模態訊息內容
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// apiError OpenRouter 錯誤回應
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewOpenRouterExtractor 創建文字辨識服務
func NewOpenRouterExtractor(cfg config.OpenRouterConfig) *OpenRouterExtractor {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://ingredient-safety.local").
		SetHeader("X-Title", "Ingredient Safety")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &OpenRouterExtractor{cfg: cfg, client: client}
}

// Enabled 需同時啟用並設定 API Key
func (e *OpenRouterExtractor) Enabled() bool {
	return e.cfg.Enabled && e.cfg.APIKey != ""
}

// ExtractText 送出照片並取回模型讀到的成分文字
func (e *OpenRouterExtractor) ExtractText(ctx context.Context, imageData string) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}

	url := imageData
	if !strings.HasPrefix(url, "data:image/") && !strings.HasPrefix(url, "http") {
		url = fmt.Sprintf("data:image/jpeg;base64,%s", imageData)
	}

	req := chatRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: extractPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: url}},
			},
		}},
		MaxTokens: e.cfg.MaxTokens,
	}

	start := time.Now()
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("OpenRouter API returned error (status %d): %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return "", fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode())
	}

	var result chatResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	common.LogInfo("標籤文字辨識完成",
		zap.String("model", e.cfg.Model),
		zap.Int("chars", len(text)),
		zap.Duration("耗時", time.Since(start)),
	)
	return text, nil
}
