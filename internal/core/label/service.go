package label

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"ingredient-safety/internal/core/cache"
	"ingredient-safety/internal/core/ocr"
	"ingredient-safety/internal/core/safety"
	"ingredient-safety/internal/pkg/common"
)

// ImageProcessor 照片驗證與轉檔
type ImageProcessor interface {
	ProcessImage(ctx context.Context, imageData string) (string, error)
}

// Service 標籤照片辨識服務：照片 → 文字 → 清理 → 成分分析
type Service struct {
	images    ImageProcessor
	extractor ocr.Extractor
	analyzer  *safety.Analyzer
	cache     cache.Store
}

// NewService 創建標籤辨識服務，store 為 nil 時每次都重新辨識
func NewService(images ImageProcessor, extractor ocr.Extractor, analyzer *safety.Analyzer, store cache.Store) *Service {
	return &Service{
		images:    images,
		extractor: extractor,
		analyzer:  analyzer,
		cache:     store,
	}
}

// Enabled 文字辨識是否可用
func (s *Service) Enabled() bool {
	return s.extractor != nil && s.extractor.Enabled()
}

// Scan 辨識標籤照片並分析其中的成分
func (s *Service) Scan(ctx context.Context, imageData string) (*common.LabelScanResponse, error) {
	if strings.TrimSpace(imageData) == "" {
		return nil, common.NewValidationError("image is required")
	}
	if !s.Enabled() {
		return nil, common.ErrOCRDisabled
	}

	start := time.Now()
	processed, err := s.images.ProcessImage(ctx, imageData)
	if err != nil {
		return nil, err
	}

	raw, err := s.extractText(ctx, processed)
	if err != nil {
		if errors.Is(err, ocr.ErrDisabled) {
			return nil, common.ErrOCRDisabled
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, common.ErrGatewayTimeout.Wrap(err)
		}
		return nil, common.ErrOCRFailed.Wrap(err)
	}

	cleaned := ocr.CleanText(raw)
	records := s.analyzer.Analyze(ctx, cleaned)

	common.LogInfo("標籤辨識完成",
		zap.Int("raw_chars", len(raw)),
		zap.Int("ingredients", len(records)),
		zap.Duration("耗時", time.Since(start)),
	)

	return &common.LabelScanResponse{
		RawText:     raw,
		CleanedText: cleaned,
		Ingredients: records,
		Summary:     safety.Summarize(records),
	}, nil
}

// extractText 同一張照片的辨識結果會被快取
func (s *Service) extractText(ctx context.Context, processed string) (string, error) {
	sum := sha256.Sum256([]byte(processed))
	key := "ocr:" + hex.EncodeToString(sum[:])

	if s.cache != nil {
		if text, ok := s.cache.Get(ctx, key); ok {
			return text, nil
		}
	}

	text, err := s.extractor.ExtractText(ctx, processed)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text); err != nil {
			common.LogWarn("寫入快取失敗", zap.String("key", key), zap.Error(err))
		}
	}
	return text, nil
}
