package analysis

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-safety/internal/pkg/common"
)

// bindJSON 解析請求體，過大的請求回 413，其他錯誤回 400
func bindJSON(c *gin.Context, v interface{}, debug bool) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		common.WriteError(c, common.ErrRequestTooLarge.Wrap(err), debug)
		return false
	}

	common.LogWarn("Invalid request format",
		zap.Error(err),
		zap.String("request_id", common.RequestID(c)),
		zap.String("path", c.Request.URL.Path),
	)
	common.WriteError(c, common.ErrInvalidRequest.Wrap(err), debug)
	return false
}

// getImageType 獲取圖片類型（用於日誌記錄）
func getImageType(image string) string {
	switch {
	case image == "":
		return "empty"
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return "url"
	case strings.HasPrefix(image, "data:image/"):
		if mime, _, ok := strings.Cut(image, ";base64,"); ok {
			return "base64_data_uri_" + strings.TrimPrefix(mime, "data:image/")
		}
		return "invalid_data_uri"
	default:
		return "unknown_format"
	}
}
