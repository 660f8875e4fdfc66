package session

import (
	"context"
	"sync"
	"time"

	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 記憶體內的 Store，背景定期清除過期進度
type MemoryStore struct {
	mu        sync.RWMutex
	store     map[string]*Session
	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
	evictions int64
}

// NewMemoryStore 創建記憶體 Store；cleanupInterval <= 0 時不啟動清理協程
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		store: make(map[string]*Session),
		now:   time.Now,
		done:  make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go m.startCleanup(cleanupInterval)
	}

	common.LogInfo("烹飪進度記憶體儲存已初始化",
		zap.Duration("清理間隔", cleanupInterval),
	)
	return m
}

func (m *MemoryStore) Get(_ context.Context, recipeID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.store[recipeID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[s.RecipeID] = s.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.store, recipeID)
	return nil
}

// Len 目前筆數（含尚未清除的過期進度）
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// startCleanup 定期清理過期進度
func (m *MemoryStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期的進度，回傳清除數量
func (m *MemoryStore) cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	count := 0
	for id, s := range m.store {
		if s.Expired(now) {
			delete(m.store, id)
			count++
		}
	}
	m.evictions += int64(count)

	if count > 0 {
		common.LogInfo("已清除過期烹飪進度",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}
	return count
}

// Close 停止清理協程並清空資料
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]*Session)
	return nil
}

var _ Store = (*MemoryStore)(nil)
