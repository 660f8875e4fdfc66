// Package handlers 提供各處理器共用的錯誤對應與回應工具
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"recipe-importer/internal/core/extract"
	"recipe-importer/internal/core/fetch"
	"recipe-importer/internal/core/importer"
	"recipe-importer/internal/core/session"
	"recipe-importer/internal/infrastructure/storage"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MapError 將領域錯誤對應到 API 錯誤
func MapError(err error) *common.CustomError {
	var fetchErr *fetch.FetchError
	var ce *common.CustomError

	switch {
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, fetch.ErrInvalidURL),
		errors.Is(err, session.ErrInvalidIndex),
		errors.Is(err, session.ErrInvalidMultiplier),
		common.IsValidationError(err):
		return common.ErrInvalidRequest.Wrap(err)
	case errors.Is(err, extract.ErrExtractionExhausted):
		return common.ErrExtractionFailed.Wrap(err)
	case errors.As(err, &fetchErr):
		return common.ErrFetchFailed.Wrap(err)
	case errors.Is(err, importer.ErrQueueFull), errors.Is(err, importer.ErrQueueClosed):
		return common.ErrQueueFull.Wrap(err)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return common.ErrNotFound.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	default:
		return common.ErrInternalError.Wrap(err)
	}
}

// RespondError 記錄並回傳錯誤
func RespondError(c *gin.Context, err error) {
	ce := MapError(err)
	fields := []zap.Field{
		zap.String("code", ce.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求處理失敗", fields...)
	}
	_ = c.Error(err)
	common.WriteError(c, ce)
}

// BindJSON 解析請求體，失敗時回傳 400 並回報 false
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return false
	}
	return true
}

// IndexParam 讀取非負整數路徑參數
func IndexParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		RespondError(c, common.NewValidationError("invalid "+name))
		return 0, false
	}
	return n, true
}
