package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// Manager 烹飪進度的生命週期；所有更新在同一把鎖下讀取、修改後整筆寫回
type Manager struct {
	store    Store
	ttl      time.Duration
	extendBy time.Duration
	now      func() time.Time
	mu       sync.Mutex
}

// Option 設定 Manager
type Option func(*Manager)

// WithClock 指定時間來源
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager 創建烹飪進度管理器
func NewManager(store Store, cfg config.SessionConfig, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		ttl:      cfg.TTL,
		extendBy: cfg.ExtendBy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now 目前時間
func (m *Manager) Now() time.Time {
	return m.now()
}

// Start 回傳進行中的進度，沒有時以新的 TTL 建立
func (m *Manager) Start(ctx context.Context, recipeID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(ctx, recipeID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return m.create(ctx, recipeID)
}

// Get 取得進度；過期的進度在讀取時刪除並回傳 ErrNotFound
func (m *Manager) Get(ctx context.Context, recipeID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx, recipeID)
}

// ToggleIngredient 切換食材勾選狀態
func (m *Manager) ToggleIngredient(ctx context.Context, recipeID string, index int) (*Session, error) {
	if index < 0 {
		return nil, ErrInvalidIndex
	}
	return m.update(ctx, recipeID, func(s *Session) {
		toggle(s.CheckedIngredients, index)
	})
}

// ToggleStep 切換步驟勾選狀態
func (m *Manager) ToggleStep(ctx context.Context, recipeID string, index int) (*Session, error) {
	if index < 0 {
		return nil, ErrInvalidIndex
	}
	return m.update(ctx, recipeID, func(s *Session) {
		toggle(s.CheckedSteps, index)
	})
}

// SetMultiplier 設定份量倍率
func (m *Manager) SetMultiplier(ctx context.Context, recipeID string, multiplier float64) (*Session, error) {
	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		return nil, ErrInvalidMultiplier
	}
	return m.update(ctx, recipeID, func(s *Session) {
		s.Multiplier = multiplier
	})
}

// Extend 從 max(expiresAt, now) 往後延長；by <= 0 時使用設定值
func (m *Manager) Extend(ctx context.Context, recipeID string, by time.Duration) (*Session, error) {
	if by <= 0 {
		by = m.extendBy
	}
	now := m.now()
	return m.update(ctx, recipeID, func(s *Session) {
		base := s.Expiry()
		if base.Before(now) {
			base = now
		}
		s.ExpiresAt = base.Add(by).UnixMilli()
	})
}

// Reset 以預設狀態與新的 TTL 重新建立
func (m *Manager) Reset(ctx context.Context, recipeID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(ctx, recipeID)
}

// End 結束進度；不存在時不視為錯誤
func (m *Manager) End(ctx context.Context, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, recipeID); err != nil {
		return err
	}
	common.LogInfo("烹飪進度已結束", zap.String("recipe_id", recipeID))
	return nil
}

func (m *Manager) update(ctx context.Context, recipeID string, mutate func(*Session)) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	next := s.Clone()
	mutate(next)
	if err := m.store.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return next, nil
}

// load 呼叫前必須持有 mu
func (m *Manager) load(ctx context.Context, recipeID string) (*Session, error) {
	s, err := m.store.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, recipeID); err != nil {
			common.LogWarn("刪除過期烹飪進度失敗", zap.String("recipe_id", recipeID), zap.Error(err))
		}
		common.LogDebug("烹飪進度已過期", zap.String("recipe_id", recipeID))
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) create(ctx context.Context, recipeID string) (*Session, error) {
	s := New(recipeID, m.now().Add(m.ttl))
	if err := m.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	common.LogInfo("烹飪進度已建立",
		zap.String("recipe_id", recipeID),
		zap.Time("expires_at", s.Expiry()),
	)
	return s, nil
}
