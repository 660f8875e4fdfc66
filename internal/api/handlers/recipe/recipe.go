package recipe

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"recipe-importer/internal/api/handlers"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/core/scaling"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Importer 下載並擷取食譜
type Importer interface {
	Import(ctx context.Context, pageURL string) (*recipe.Recipe, error)
}

// Extractor 從呼叫端提供的 HTML 擷取食譜
type Extractor interface {
	Extract(ctx context.Context, html, pageURL string) (*recipe.Recipe, error)
}

// Library 已保存的食譜
type Library interface {
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
	List(ctx context.Context, limit, offset int) ([]*recipe.Recipe, int, error)
	Search(ctx context.Context, q string, limit, offset int) ([]*recipe.Recipe, int, error)
	Delete(ctx context.Context, id string) error
}

// Handler 食譜處理程序
type Handler struct {
	importer  Importer
	extractor Extractor
	library   Library
}

// NewHandler 創建食譜處理程序；library 為 nil 時食譜庫相關端點回傳 503
func NewHandler(importer Importer, extractor Extractor, library Library) *Handler {
	return &Handler{
		importer:  importer,
		extractor: extractor,
		library:   library,
	}
}

// HandleImport 依網址匯入食譜
func (h *Handler) HandleImport(c *gin.Context) {
	var req ImportRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	common.LogInfo("開始匯入食譜",
		zap.String("request_id", requestid.Get(c)),
		zap.String("url", req.URL),
	)

	r, err := h.importer.Import(c.Request.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipeResponse{Success: true, Recipe: r})
}

// HandleExtract 從請求中的 HTML 擷取食譜
func (h *Handler) HandleExtract(c *gin.Context) {
	var req ExtractRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	r, err := h.extractor.Extract(c.Request.Context(), req.HTML, strings.TrimSpace(req.URL))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipeResponse{Success: true, Recipe: r})
}

// HandleList 列出或搜尋食譜，q 為空時依更新時間列出
func (h *Handler) HandleList(c *gin.Context) {
	if !h.requireLibrary(c) {
		return
	}

	var page common.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	page = page.Normalize()

	var (
		items []*recipe.Recipe
		total int
		err   error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		items, total, err = h.library.Search(c.Request.Context(), q, page.Limit, page.Offset)
	} else {
		items, total, err = h.library.List(c.Request.Context(), page.Limit, page.Offset)
	}
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.ListResponse{
		Success: true,
		Items:   items,
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
}

// HandleGet 取得單一食譜
func (h *Handler) HandleGet(c *gin.Context) {
	if !h.requireLibrary(c) {
		return
	}

	r, err := h.library.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipeResponse{Success: true, Recipe: r})
}

// HandleScaled 依 multiplier 查詢參數縮放食譜，showGrams=true 時附上克數
func (h *Handler) HandleScaled(c *gin.Context) {
	if !h.requireLibrary(c) {
		return
	}

	multiplier := 1.0
	if raw := c.Query("multiplier"); raw != "" {
		m, err := strconv.ParseFloat(raw, 64)
		if err != nil || m <= 0 {
			handlers.RespondError(c, common.NewValidationError("multiplier must be a positive number"))
			return
		}
		multiplier = scaling.SnapMultiplier(m)
	}
	showGrams, _ := strconv.ParseBool(c.Query("showGrams"))

	r, err := h.library.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScaledRecipeResponse{
		Success:     true,
		Recipe:      r,
		Multiplier:  multiplier,
		Ingredients: scaling.ScaleIngredients(r.Ingredients, multiplier, showGrams),
	})
}

// HandleDelete 刪除食譜
func (h *Handler) HandleDelete(c *gin.Context) {
	if !h.requireLibrary(c) {
		return
	}

	if err := h.library.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.SuccessResponse{Success: true})
}

func (h *Handler) requireLibrary(c *gin.Context) bool {
	if h.library == nil {
		handlers.RespondError(c, common.ErrStorageDisabled)
		return false
	}
	return true
}
