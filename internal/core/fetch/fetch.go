// Package fetch 下載待擷取的網頁
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fetcher 依 URL 取得 HTML
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// FetchError 網路或 HTTP 層的失敗
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ErrInvalidURL 只接受 http/https 的絕對網址
var ErrInvalidURL = errors.New("invalid url")

// HTTPFetcher 以 resty 實作的 Fetcher
type HTTPFetcher struct {
	client  *resty.Client
	maxBody int64
}

// NewHTTPFetcher 創建抓取器
func NewHTTPFetcher(cfg config.FetcherConfig) *HTTPFetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &HTTPFetcher{
		client:  client,
		maxBody: cfg.MaxBodyBytes,
	}
}

// Fetch 下載頁面並回傳 HTML
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := ValidateURL(pageURL); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	body := resp.Body()
	if f.maxBody > 0 && int64(len(body)) > f.maxBody {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("body exceeds %d bytes", f.maxBody)}
	}

	common.LogDebug("頁面下載完成",
		zap.String("url", pageURL),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(body)),
		zap.Duration("耗時", time.Since(start)),
	)

	return string(body), nil
}

// ValidateURL 檢查是否為 http/https 絕對網址
func ValidateURL(pageURL string) error {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
