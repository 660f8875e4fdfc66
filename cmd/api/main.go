package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-importer/internal/api"
	"recipe-importer/internal/api/handlers/health"
	"recipe-importer/internal/core/extract"
	"recipe-importer/internal/core/fetch"
	"recipe-importer/internal/core/importer"
	"recipe-importer/internal/core/session"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/infrastructure/storage"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("storage_enabled", cfg.Storage.Enabled),
		zap.Int("queue_workers", cfg.Queue.Workers),
	)

	deps := api.Dependencies{Checks: map[string]health.Pinger{}}

	// 食譜庫
	var saver importer.Saver
	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			common.LogFatal("Failed to open recipe storage", zap.Error(err))
		}
		defer store.Close()
		saver = store
		deps.Library = store
		deps.Checks["storage"] = store
	}

	// 烹飪進度
	sessionStore, err := newSessionStore(cfg.Session)
	if err != nil {
		common.LogFatal("Failed to initialize session store", zap.Error(err))
	}
	defer sessionStore.Close()
	if p, ok := sessionStore.(health.Pinger); ok {
		deps.Checks["sessions"] = p
	}
	deps.Sessions = session.NewManager(sessionStore, cfg.Session)

	// 擷取與匯入
	fetcher := fetch.NewHTTPFetcher(cfg.Fetcher)
	chain := extract.NewChain(extract.DefaultStrategies(fetcher))
	svc := importer.NewService(fetcher, chain, saver)
	queue := importer.NewQueue(svc, cfg.Queue)
	defer queue.Close()

	deps.Importer = queue
	deps.Extractor = svc
	deps.Queue = queue

	router := api.SetupRouter(cfg, deps)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

func newSessionStore(cfg config.SessionConfig) (session.Store, error) {
	if cfg.Backend == config.SessionBackendRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return session.NewRedisStore(ctx, cfg.Redis)
	}
	return session.NewMemoryStore(cfg.CleanupInterval), nil
}
