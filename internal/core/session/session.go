// Package session 管理烹飪進度（勾選狀態與份量倍率）
package session

import (
	"errors"
	"time"
)

// ExpiringWindow 剩餘時間少於此值時狀態為 expiring
const ExpiringWindow = 24 * time.Hour

var (
	// ErrNotFound 沒有進行中的烹飪進度
	ErrNotFound = errors.New("cook session not found")
	// ErrInvalidIndex 勾選索引必須大於等於 0
	ErrInvalidIndex = errors.New("invalid index")
	// ErrInvalidMultiplier 倍率必須為正數
	ErrInvalidMultiplier = errors.New("invalid multiplier")
)

// Status 烹飪進度狀態
type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// Session 單一食譜的烹飪進度，每個 recipeId 最多一筆
type Session struct {
	RecipeID           string       `json:"recipeId"`
	CheckedIngredients map[int]bool `json:"checkedIngredients"`
	CheckedSteps       map[int]bool `json:"checkedSteps"`
	Multiplier         float64      `json:"multiplier"`
	ExpiresAt          int64        `json:"expiresAt"`
}

// New 建立預設狀態的進度
func New(recipeID string, expiresAt time.Time) *Session {
	return &Session{
		RecipeID:           recipeID,
		CheckedIngredients: map[int]bool{},
		CheckedSteps:       map[int]bool{},
		Multiplier:         1,
		ExpiresAt:          expiresAt.UnixMilli(),
	}
}

// Expiry 到期時間
func (s *Session) Expiry() time.Time {
	return time.UnixMilli(s.ExpiresAt)
}

// Expired 到期時間已過
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Expiry())
}

// Status 依剩餘時間回傳狀態
func (s *Session) Status(now time.Time) Status {
	switch left := s.Expiry().Sub(now); {
	case left <= 0:
		return StatusExpired
	case left < ExpiringWindow:
		return StatusExpiring
	default:
		return StatusActive
	}
}

// Clone 深拷貝，更新時整筆替換
func (s *Session) Clone() *Session {
	c := *s
	c.CheckedIngredients = cloneChecks(s.CheckedIngredients)
	c.CheckedSteps = cloneChecks(s.CheckedSteps)
	return &c
}

func cloneChecks(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toggle(m map[int]bool, index int) {
	if m[index] {
		delete(m, index)
		return
	}
	m[index] = true
}
