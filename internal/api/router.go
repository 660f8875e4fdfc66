package api

import (
	"time"

	"recipe-importer/internal/api/handlers/health"
	recipeHandler "recipe-importer/internal/api/handlers/recipe"
	sessionHandler "recipe-importer/internal/api/handlers/session"
	"recipe-importer/internal/api/middleware"
	"recipe-importer/internal/core/session"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務；Library 為 nil 表示食譜庫停用
type Dependencies struct {
	Importer  recipeHandler.Importer
	Extractor recipeHandler.Extractor
	Library   recipeHandler.Library
	Sessions  *session.Manager
	Queue     health.QueueStatuser
	Checks    map[string]health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Queue, deps.Checks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api")
	api.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	{
		recipes := recipeHandler.NewHandler(deps.Importer, deps.Extractor, deps.Library)

		// 只有匯入與擷取需要去重，勾選切換連點兩次是正常操作
		dedup := middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow))
		api.POST("/import", dedup, recipes.HandleImport)
		api.POST("/extract", dedup, recipes.HandleExtract)

		ingredients := api.Group("/ingredients")
		{
			ingredients.POST("/parse", recipeHandler.HandleParse)
			ingredients.POST("/scale", recipeHandler.HandleScale)
			ingredients.POST("/convert", recipeHandler.HandleConvert)
		}
		api.GET("/units", recipeHandler.HandleUnits)

		library := api.Group("/recipes")
		{
			library.GET("", recipes.HandleList)
			library.GET("/:id", recipes.HandleGet)
			library.GET("/:id/scaled", recipes.HandleScaled)
			library.DELETE("/:id", recipes.HandleDelete)
		}

		if deps.Sessions != nil {
			var lookup sessionHandler.RecipeLookup
			if deps.Library != nil {
				lookup = deps.Library
			}
			sessions := sessionHandler.NewHandler(deps.Sessions, lookup)

			sg := api.Group("/sessions/:recipeId")
			{
				sg.POST("", sessions.HandleStart)
				sg.GET("", sessions.HandleGet)
				sg.DELETE("", sessions.HandleEnd)
				sg.POST("/ingredients/:index/toggle", sessions.HandleToggleIngredient)
				sg.POST("/steps/:index/toggle", sessions.HandleToggleStep)
				sg.PUT("/multiplier", sessions.HandleSetMultiplier)
				sg.POST("/extend", sessions.HandleExtend)
				sg.POST("/reset", sessions.HandleReset)
			}
		}
	}

	common.LogInfo("Router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Bool("library_enabled", deps.Library != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
