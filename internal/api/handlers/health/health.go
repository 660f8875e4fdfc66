package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"recipe-importer/internal/core/importer"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// readyTimeout 單一依賴檢查的時限
const readyTimeout = 2 * time.Second

// Pinger 可檢查連線的依賴（SQLite、Redis）
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueStatuser 匯入隊列狀態
type QueueStatuser interface {
	Status() importer.Status
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *importer.Status       `json:"queue,omitempty"`
}

// ReadyResponse 就緒檢查響應
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Handler 健康檢查處理器
type Handler struct {
	version string
	queue   QueueStatuser
	deps    map[string]Pinger
}

// NewHandler 創建健康檢查處理器；queue 可為 nil
func NewHandler(version string, queue QueueStatuser, deps map[string]Pinger) *Handler {
	return &Handler{version: version, queue: queue, deps: deps}
}

// HealthCheck 健康檢查處理器
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
	}
	if h.queue != nil {
		st := h.queue.Status()
		response.Queue = &st
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 逐一檢查依賴，任一失敗回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := ReadyResponse{Status: "ready", Checks: make(map[string]string, len(names))}
	status := http.StatusOK
	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		err := h.deps[name].Ping(ctx)
		cancel()

		if err != nil {
			common.LogWarn("依賴檢查失敗", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
