package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-safety/internal/api/handlers/analysis"
	"ingredient-safety/internal/api/handlers/health"
	"ingredient-safety/internal/api/middleware"
	"ingredient-safety/internal/core/cache"
	"ingredient-safety/internal/core/ewg"
	"ingredient-safety/internal/core/faq"
	"ingredient-safety/internal/core/image"
	"ingredient-safety/internal/core/label"
	"ingredient-safety/internal/core/ocr"
	"ingredient-safety/internal/core/safety"
	"ingredient-safety/internal/infrastructure/config"
	"ingredient-safety/internal/pkg/common"
)

// Services 路由使用的服務
type Services struct {
	Analyzer *safety.Analyzer
	Label    *label.Service
	FAQ      *faq.Responder
	Scraper  *ewg.Client
}

// NewServices 載入資料並初始化服務，store 為 nil 時不快取外部查詢
func NewServices(cfg *config.Config, store cache.Store) (*Services, error) {
	catalog, err := safety.LoadCatalog(cfg.Analysis.CuratedPath, cfg.Analysis.FuzzyThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to load curated catalog: %w", err)
	}
	rules, err := safety.LoadRules(cfg.Analysis.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier rules: %w", err)
	}
	responder, err := faq.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("failed to load faq topics: %w", err)
	}

	scraper := ewg.NewClient(cfg.Scraper, store)
	var remote safety.Remote
	if scraper.Enabled() {
		remote = scraper
	}
	analyzer := safety.NewAnalyzer(catalog, rules, remote, cfg.Analysis.Workers)

	labelSvc := label.NewService(
		image.NewService(cfg.Image.MaxSizeBytes),
		ocr.NewOpenRouterExtractor(cfg.OpenRouter),
		analyzer,
		store,
	)

	common.LogInfo("Services initialized",
		zap.Int("catalog_entries", catalog.Len()),
		zap.Bool("scraper_enabled", scraper.Enabled()),
		zap.Bool("ocr_enabled", labelSvc.Enabled()),
		zap.Bool("cache_enabled", store != nil),
		zap.Int("workers", cfg.Analysis.Workers),
	)

	return &Services{
		Analyzer: analyzer,
		Label:    labelSvc,
		FAQ:      responder,
		Scraper:  scraper,
	}, nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services, store cache.Store) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodySize))

	healthHandler := health.NewHandler(
		cfg.App.Version,
		store,
		svc.Scraper.Enabled(),
		svc.Label.Enabled(),
		svc.Analyzer.Catalog().Len(),
	)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.Deduplication(cfg.DedupWindow))
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	{
		debug := cfg.App.Debug

		ingredients := api.Group("/ingredients")
		{
			ingredients.POST("/analyze", analysis.HandleAnalyze(svc.Analyzer, cfg.Analysis.MaxIngredients, debug))
			ingredients.GET("/lookup", analysis.HandleLookup(svc.Analyzer, debug))
			ingredients.GET("/catalog", analysis.HandleCatalog(svc.Analyzer))
		}

		api.POST("/label/scan", analysis.HandleLabelScan(svc.Label, debug))
		api.POST("/faq", analysis.HandleFAQ(svc.FAQ, debug))
	}

	router.NoRoute(func(c *gin.Context) {
		common.WriteError(c, common.ErrNotFound, false)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodySize),
	)

	return router
}
