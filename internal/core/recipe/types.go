// Package recipe 定義所有擷取器共用的標準食譜紀錄
package recipe

import (
	"net/url"
	"strings"
	"time"

	"recipe-importer/internal/core/ingredient"
)

// UntitledRecipe 找不到任何標題時使用
const UntitledRecipe = "Untitled Recipe"

// UnknownSource URL 無法解析時的來源名稱
const UnknownSource = "Unknown Source"

// Times 準備、烹煮、總時間（分鐘）
type Times struct {
	Prep  *int `json:"prep,omitempty"`
	Cook  *int `json:"cook,omitempty"`
	Total *int `json:"total,omitempty"`
}

// NewTimes 只保留大於 0 的時間；全部為 0 時回傳 nil
func NewTimes(prep, cook, total int) *Times {
	t := &Times{Prep: positive(prep), Cook: positive(cook), Total: positive(total)}
	if t.Prep == nil && t.Cook == nil && t.Total == nil {
		return nil
	}
	return t
}

func positive(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

// Recipe 標準食譜紀錄
type Recipe struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Author      string             `json:"author,omitempty"`
	Image       string             `json:"image,omitempty"`
	SourceURL   string             `json:"sourceUrl"`
	SourceName  string             `json:"sourceName"`
	Yield       string             `json:"yield,omitempty"`
	Servings    *int               `json:"servings,omitempty"`
	Times       *Times             `json:"times,omitempty"`
	Ingredients []ingredient.Token `json:"ingredients"`
	Steps       []string           `json:"steps"`
	Tips        []string           `json:"tips,omitempty"`
	CreatedAt   int64              `json:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt"`
}

// Extracted 至少有一項食材與一個步驟才算擷取成功
func (r *Recipe) Extracted() bool {
	return r != nil && len(r.Ingredients) > 0 && len(r.Steps) > 0
}

// Stamp 設定 ID、來源與建立時間，只在紀錄建立時呼叫一次
func (r *Recipe) Stamp(id, sourceURL string, now time.Time) {
	r.ID = id
	r.SourceURL = sourceURL
	r.SourceName = SourceName(sourceURL)
	r.CreatedAt = now.UnixMilli()
	r.UpdatedAt = r.CreatedAt
}

// Touch 更新修改時間
func (r *Recipe) Touch(now time.Time) {
	r.UpdatedAt = now.UnixMilli()
}

// EnsureTitle 標題為空時依序使用 fallback 與預設標題
func (r *Recipe) EnsureTitle(fallback string) {
	if strings.TrimSpace(r.Title) != "" {
		return
	}
	r.Title = strings.TrimSpace(fallback)
	if r.Title == "" {
		r.Title = UntitledRecipe
	}
}

// SourceName 取得網域名稱並去除 www.
func SourceName(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return UnknownSource
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
