package importer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull 等待中的匯入已達上限
	ErrQueueFull = errors.New("import queue is full")
	// ErrQueueClosed 隊列已關閉
	ErrQueueClosed = errors.New("import queue is closed")
)

// Importer 匯入單一網址
type Importer interface {
	Import(ctx context.Context, pageURL string) (*recipe.Recipe, error)
}

// Result 處理結果
type Result struct {
	Recipe *recipe.Recipe
	Error  error
}

// job 隊列請求
type job struct {
	ctx    context.Context
	url    string
	result chan Result
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Queue 固定數量 worker 的匯入隊列，限制同時對外抓取的數量
type Queue struct {
	importer  Importer
	cfg       config.QueueConfig
	jobs      chan *job
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	processed int64
	failed    int64
}

// NewQueue 創建隊列並啟動 worker
func NewQueue(importer Importer, cfg config.QueueConfig) *Queue {
	q := &Queue{
		importer: importer,
		cfg:      cfg,
		jobs:     make(chan *job, cfg.MaxSize),
		done:     make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	common.LogInfo("匯入隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return q
}

// Enqueue 將請求加入隊列；隊列已滿時立即回傳 ErrQueueFull
func (q *Queue) Enqueue(ctx context.Context, pageURL string) (<-chan Result, error) {
	select {
	case <-q.done:
		return nil, ErrQueueClosed
	default:
	}

	j := &job{
		ctx:    ctx,
		url:    pageURL,
		result: make(chan Result, 1),
	}

	select {
	case q.jobs <- j:
		common.LogDebug("匯入請求已排入",
			zap.String("url", pageURL),
			zap.Int("queue_length", len(q.jobs)),
		)
		return j.result, nil
	default:
		return nil, ErrQueueFull
	}
}

// Import 排入隊列並等待結果
func (q *Queue) Import(ctx context.Context, pageURL string) (*recipe.Recipe, error) {
	ch, err := q.Enqueue(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-ch:
		return res.Recipe, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.done:
		return nil, ErrQueueClosed
	}
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case j := <-q.jobs:
			q.process(id, j)
		case <-q.done:
			return
		}
	}
}

func (q *Queue) process(id int, j *job) {
	// 呼叫端已放棄等待
	if err := j.ctx.Err(); err != nil {
		j.result <- Result{Error: err}
		return
	}

	r, err := q.importer.Import(j.ctx, j.url)
	atomic.AddInt64(&q.processed, 1)
	if err != nil {
		atomic.AddInt64(&q.failed, 1)
		common.LogDebug("匯入失敗", zap.Int("worker", id), zap.String("url", j.url), zap.Error(err))
	}
	j.result <- Result{Recipe: r, Error: err}
}

// Status 獲取隊列狀態
func (q *Queue) Status() Status {
	return Status{
		QueueLength:    len(q.jobs),
		ProcessedCount: atomic.LoadInt64(&q.processed),
		FailedCount:    atomic.LoadInt64(&q.failed),
		MaxQueueSize:   q.cfg.MaxSize,
		Workers:        q.cfg.Workers,
	}
}

// Close 停止 worker 並等待進行中的匯入結束
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
	q.wg.Wait()
}

var _ Importer = (*Service)(nil)
var _ Importer = (*Queue)(nil)
