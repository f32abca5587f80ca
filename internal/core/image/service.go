package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"github.com/go-resty/resty/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 支援 WebP

	"ingredient-safety/internal/pkg/common"
)

// DefaultMaxDimension 送去辨識前的最長邊上限
const DefaultMaxDimension = 1600

// Service 標籤照片處理服務
type Service struct {
	maxSizeBytes int64
	maxDimension int
	client       *resty.Client
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		maxDimension: DefaultMaxDimension,
		client:       resty.New().SetTimeout(30 * time.Second),
	}
}

// ProcessImage 驗證照片並轉為 JPEG data URI，過大的照片會等比縮小
func (s *Service) ProcessImage(ctx context.Context, imageData string) (string, error) {
	img, err := s.decode(ctx, imageData)
	if err != nil {
		return "", err
	}

	img = s.downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encodedData := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encodedData), nil
}

// ValidateImage 驗證圖片
func (s *Service) ValidateImage(ctx context.Context, imageData string) error {
	_, err := s.decode(ctx, imageData)
	return err
}

// decode 讀取 URL 或 base64 照片並解碼
func (s *Service) decode(ctx context.Context, imageData string) (image.Image, error) {
	raw, err := s.load(ctx, strings.TrimSpace(imageData))
	if err != nil {
		return nil, err
	}

	if int64(len(raw)) > s.maxSizeBytes {
		return nil, common.ErrInvalidImageSize.Wrap(
			fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}
	if !isSupportedFormat(format) {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}
	return img, nil
}

func (s *Service) load(ctx context.Context, imageData string) ([]byte, error) {
	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		resp, err := s.client.R().SetContext(ctx).Get(imageData)
		if err != nil {
			return nil, common.ErrInvalidRequest.Wrap(fmt.Errorf("failed to download image: %w", err))
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, common.ErrInvalidRequest.Wrap(
				fmt.Errorf("failed to download image: status code %d", resp.StatusCode()))
		}
		return resp.Body(), nil
	}

	if !strings.HasPrefix(imageData, "data:image/") {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("invalid image data format"))
	}

	_, payload, ok := strings.Cut(imageData, ",")
	if !ok || payload == "" {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("invalid base64 data format"))
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode base64 data: %w", err))
	}
	return decoded, nil
}

// downscale 最長邊超過上限時等比縮小
func (s *Service) downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if s.maxDimension <= 0 || longest <= s.maxDimension {
		return img
	}

	nw := max(1, w*s.maxDimension/longest)
	nh := max(1, h*s.maxDimension/longest)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
