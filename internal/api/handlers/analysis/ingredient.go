package analysis

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-safety/internal/core/safety"
	"ingredient-safety/internal/pkg/common"
)

// CatalogResponse 人工資料庫成分清單
type CatalogResponse struct {
	Count       int      `json:"count"`
	Ingredients []string `json:"ingredients"`
}

// HandleAnalyze 處理成分表分析請求
func HandleAnalyze(analyzer *safety.Analyzer, maxIngredients int, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := common.RequestID(c)

		var req common.AnalyzeRequest
		if !bindJSON(c, &req, debug) {
			return
		}

		if maxIngredients > 0 {
			if n := len(safety.SplitIngredients(*req.Text)); n > maxIngredients {
				common.WriteError(c, common.NewValidationError(
					fmt.Sprintf("too many ingredients: %d (max %d)", n, maxIngredients)), debug)
				return
			}
		}

		records := analyzer.Analyze(c.Request.Context(), *req.Text)

		common.LogInfo("Successfully analyzed ingredients",
			zap.String("request_id", requestID),
			zap.Int("ingredients_count", len(records)),
		)

		c.JSON(http.StatusOK, common.AnalyzeResponse{
			Ingredients: records,
			Summary:     safety.Summarize(records),
		})
	}
}

// HandleLookup 查詢單一成分
func HandleLookup(analyzer *safety.Analyzer, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.Query("name"))
		if name == "" {
			common.WriteError(c, common.ErrEmptyIngredients, debug)
			return
		}

		record, ok := analyzer.Lookup(c.Request.Context(), name)
		if !ok {
			common.WriteError(c, common.NewValidationError("ingredient name is too short"), debug)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

// HandleCatalog 列出人工資料庫中的成分
func HandleCatalog(analyzer *safety.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		names := analyzer.Catalog().Names()
		c.JSON(http.StatusOK, CatalogResponse{
			Count:       len(names),
			Ingredients: names,
		})
	}
}
