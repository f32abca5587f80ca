package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-safety/internal/core/cache"
	"ingredient-safety/internal/pkg/common"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Features  Features               `json:"features"`
	Catalog   int                    `json:"catalog_entries"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// Features 外部協作服務是否啟用
type Features struct {
	Scraper bool `json:"scraper"`
	OCR     bool `json:"ocr"`
	Cache   bool `json:"cache"`
}

// Handler 健康檢查處理器
type Handler struct {
	version        string
	store          cache.Store
	features       Features
	catalogEntries int
}

// NewHandler 創建健康檢查處理器，store 可為 nil
func NewHandler(version string, store cache.Store, scraper, ocr bool, catalogEntries int) *Handler {
	return &Handler{
		version:        version,
		store:          store,
		features:       Features{Scraper: scraper, OCR: ocr, Cache: store != nil},
		catalogEntries: catalogEntries,
	}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Features: h.features,
		Catalog:  h.catalogEntries,
	}
	if h.store != nil {
		response.Cache = h.store.Stats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 成分資料庫載入後才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.catalogEntries == 0 {
		common.LogWarn("Readiness check failed: curated catalog is empty")
		c.JSON(http.StatusServiceUnavailable, common.ErrServiceUnavailable.Response(false))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
