// Package importer 串接網頁下載、食譜擷取與食譜庫
package importer

import (
	"context"
	"fmt"
	"time"

	"recipe-importer/internal/core/extract"
	"recipe-importer/internal/core/fetch"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// Saver 保存擷取結果
type Saver interface {
	Save(ctx context.Context, r *recipe.Recipe) error
}

// Service 匯入服務
type Service struct {
	fetcher fetch.Fetcher
	chain   *extract.Chain
	saver   Saver
}

// NewService 創建匯入服務；saver 為 nil 時不保存
func NewService(fetcher fetch.Fetcher, chain *extract.Chain, saver Saver) *Service {
	return &Service{
		fetcher: fetcher,
		chain:   chain,
		saver:   saver,
	}
}

// Import 下載網址並擷取食譜
func (s *Service) Import(ctx context.Context, pageURL string) (*recipe.Recipe, error) {
	if err := fetch.ValidateURL(pageURL); err != nil {
		return nil, err
	}

	start := time.Now()
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		common.LogWarn("頁面下載失敗", zap.String("url", pageURL), zap.Error(err))
		return nil, err
	}

	r, err := s.Extract(ctx, html, pageURL)
	if err != nil {
		return nil, err
	}

	common.LogInfo("食譜匯入完成",
		zap.String("url", pageURL),
		zap.String("recipe_id", r.ID),
		zap.Duration("耗時", time.Since(start)),
	)
	return r, nil
}

// Extract 從已取得的 HTML 擷取食譜並保存
func (s *Service) Extract(ctx context.Context, html, pageURL string) (*recipe.Recipe, error) {
	r, err := s.chain.Extract(ctx, html, pageURL)
	if err != nil {
		return nil, err
	}

	if s.saver != nil {
		if err := s.saver.Save(ctx, r); err != nil {
			return nil, fmt.Errorf("save recipe: %w", err)
		}
	}
	return r, nil
}
