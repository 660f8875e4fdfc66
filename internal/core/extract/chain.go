// Package extract 依序嘗試各種擷取策略，把網頁轉為標準食譜紀錄
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-importer/internal/core/fetch"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ErrExtractionExhausted 所有策略都沒有結果
var ErrExtractionExhausted = errors.New("could not extract recipe from URL")

// MaxPrintDepth 列印版頁面最多遞迴一層
const MaxPrintDepth = 1

// Kind 擷取策略種類
type Kind string

const (
	KindJSONLD       Kind = "jsonld"
	KindMicrodata    Kind = "microdata"
	KindPrintVersion Kind = "print"
	KindHeuristic    Kind = "heuristic"
)

// Page 一次擷取的輸入頁面
type Page struct {
	URL   string
	HTML  string
	Doc   *goquery.Document
	Depth int
}

// Strategy 單一擷取策略；解析錯誤在策略內部吞掉並回報 false
type Strategy interface {
	Kind() Kind
	Extract(ctx context.Context, c *Chain, page *Page) (*recipe.Recipe, bool)
}

// Chain 依序執行策略，第一個成功者勝出
type Chain struct {
	strategies []Strategy
	now        func() time.Time
	newID      func() string
}

// Option 設定 Chain
type Option func(*Chain)

// WithClock 指定時間來源
func WithClock(now func() time.Time) Option {
	return func(c *Chain) { c.now = now }
}

// WithIDGenerator 指定 ID 產生器
func WithIDGenerator(newID func() string) Option {
	return func(c *Chain) { c.newID = newID }
}

// NewChain 以明確的策略順序建立 Chain
func NewChain(strategies []Strategy, opts ...Option) *Chain {
	c := &Chain{
		strategies: append([]Strategy(nil), strategies...),
		now:        time.Now,
		newID:      common.GenerateUUID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultStrategies JSON-LD、Microdata、列印版、啟發式
func DefaultStrategies(fetcher fetch.Fetcher) []Strategy {
	return []Strategy{
		JSONLD{},
		Microdata{},
		PrintVersion{Fetcher: fetcher},
		Heuristic{},
	}
}

// Kinds 回傳策略順序
func (c *Chain) Kinds() []Kind {
	kinds := make([]Kind, len(c.strategies))
	for i, s := range c.strategies {
		kinds[i] = s.Kind()
	}
	return kinds
}

// Extract 將 HTML 轉為標準食譜紀錄；沒有策略成功時回傳 ErrExtractionExhausted
func (c *Chain) Extract(ctx context.Context, rawHTML, pageURL string) (*recipe.Recipe, error) {
	page, err := newPage(rawHTML, pageURL, 0)
	if err != nil {
		return nil, err
	}

	r, kind, ok := c.run(ctx, page)
	if err := ctx.Err(); err != nil && !ok {
		return nil, err
	}
	if !ok {
		common.LogInfo("食譜擷取失敗", zap.String("url", pageURL))
		return nil, ErrExtractionExhausted
	}

	r.EnsureTitle(pageTitle(page.Doc))
	r.Stamp(c.newID(), pageURL, c.now())

	common.LogInfo("食譜擷取完成",
		zap.String("url", pageURL),
		zap.String("strategy", string(kind)),
		zap.Int("ingredients", len(r.Ingredients)),
		zap.Int("steps", len(r.Steps)),
	)
	return r, nil
}

// extractNested 在更深一層重新執行整個策略鏈，不補標題也不蓋章
func (c *Chain) extractNested(ctx context.Context, rawHTML, pageURL string, depth int) (*recipe.Recipe, bool) {
	page, err := newPage(rawHTML, pageURL, depth)
	if err != nil {
		common.LogDebug("巢狀頁面解析失敗", zap.String("url", pageURL), zap.Error(err))
		return nil, false
	}
	r, _, ok := c.run(ctx, page)
	return r, ok
}

func (c *Chain) run(ctx context.Context, page *Page) (*recipe.Recipe, Kind, bool) {
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			return nil, "", false
		}

		start := time.Now()
		r, ok := s.Extract(ctx, c, page)
		matched := ok && r.Extracted()
		common.LogStrategy(string(s.Kind()), page.URL, matched, time.Since(start))

		if matched {
			return r, s.Kind(), true
		}
	}
	return nil, "", false
}

func newPage(rawHTML, pageURL string, depth int) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{URL: pageURL, HTML: rawHTML, Doc: doc, Depth: depth}, nil
}
