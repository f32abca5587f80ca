package analysis

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-safety/internal/core/label"
	"ingredient-safety/internal/pkg/common"
)

// HandleLabelScan 處理標籤照片辨識請求
func HandleLabelScan(labelService *label.Service, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := common.RequestID(c)

		var req common.LabelScanRequest
		if !bindJSON(c, &req, debug) {
			return
		}

		result, err := labelService.Scan(c.Request.Context(), req.Image)
		if err != nil {
			common.LogError("Failed to scan label",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("image_type", getImageType(req.Image)),
				zap.Int("image_length", len(req.Image)),
			)
			common.WriteError(c, err, debug)
			return
		}

		common.LogInfo("Successfully scanned label",
			zap.String("request_id", requestID),
			zap.Int("ingredients_count", len(result.Ingredients)),
		)
		c.JSON(http.StatusOK, result)
	}
}
