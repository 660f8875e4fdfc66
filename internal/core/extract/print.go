package extract

import (
	"context"
	"net/url"
	"strings"

	"recipe-importer/internal/core/fetch"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// PrintVersion 找到列印版連結時抓取該頁並重新跑一次策略鏈
type PrintVersion struct {
	Fetcher fetch.Fetcher
}

func (PrintVersion) Kind() Kind { return KindPrintVersion }

func (p PrintVersion) Extract(ctx context.Context, c *Chain, page *Page) (*recipe.Recipe, bool) {
	if p.Fetcher == nil || page.Depth >= MaxPrintDepth {
		return nil, false
	}

	link := page.Doc.Find(`a[href*="print"], link[rel="print"]`).First()
	href := strings.TrimSpace(link.AttrOr("href", ""))
	if href == "" {
		return nil, false
	}

	printURL, err := resolveURL(page.URL, href)
	if err != nil {
		common.LogDebug("列印版網址無效", zap.String("href", href), zap.Error(err))
		return nil, false
	}
	if printURL == page.URL {
		return nil, false
	}

	html, err := p.Fetcher.Fetch(ctx, printURL)
	if err != nil {
		common.LogDebug("列印版下載失敗", zap.String("url", printURL), zap.Error(err))
		return nil, false
	}

	return c.extractNested(ctx, html, printURL, page.Depth+1)
}

func resolveURL(base, ref string) (string, error) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

var _ Strategy = PrintVersion{}
