package session

import (
	"context"
	"net/http"
	"time"

	"recipe-importer/internal/api/handlers"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/core/session"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// RecipeLookup 確認食譜存在
type RecipeLookup interface {
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
}

// SessionResponse 烹飪進度與狀態
type SessionResponse struct {
	Success bool             `json:"success"`
	Session *session.Session `json:"session"`
	Status  session.Status   `json:"status"`
}

// MultiplierRequest 設定倍率
type MultiplierRequest struct {
	Multiplier float64 `json:"multiplier" binding:"required"`
}

// ExtendRequest 延長時間，例如 "48h"；省略時使用設定值
type ExtendRequest struct {
	By string `json:"by"`
}

// Handler 烹飪進度處理程序
type Handler struct {
	manager *session.Manager
	recipes RecipeLookup
}

// NewHandler 創建處理程序；recipes 為 nil 時不檢查食譜是否存在
func NewHandler(manager *session.Manager, recipes RecipeLookup) *Handler {
	return &Handler{manager: manager, recipes: recipes}
}

// HandleStart 開始或取回烹飪進度
func (h *Handler) HandleStart(c *gin.Context) {
	recipeID := c.Param("recipeId")
	if h.recipes != nil {
		if _, err := h.recipes.Get(c.Request.Context(), recipeID); err != nil {
			handlers.RespondError(c, err)
			return
		}
	}

	s, err := h.manager.Start(c.Request.Context(), recipeID)
	h.respond(c, s, err)
}

// HandleGet 取得烹飪進度
func (h *Handler) HandleGet(c *gin.Context) {
	s, err := h.manager.Get(c.Request.Context(), c.Param("recipeId"))
	h.respond(c, s, err)
}

// HandleToggleIngredient 切換食材勾選
func (h *Handler) HandleToggleIngredient(c *gin.Context) {
	index, ok := handlers.IndexParam(c, "index")
	if !ok {
		return
	}
	s, err := h.manager.ToggleIngredient(c.Request.Context(), c.Param("recipeId"), index)
	h.respond(c, s, err)
}

// HandleToggleStep 切換步驟勾選
func (h *Handler) HandleToggleStep(c *gin.Context) {
	index, ok := handlers.IndexParam(c, "index")
	if !ok {
		return
	}
	s, err := h.manager.ToggleStep(c.Request.Context(), c.Param("recipeId"), index)
	h.respond(c, s, err)
}

// HandleSetMultiplier 設定倍率
func (h *Handler) HandleSetMultiplier(c *gin.Context) {
	var req MultiplierRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	s, err := h.manager.SetMultiplier(c.Request.Context(), c.Param("recipeId"), req.Multiplier)
	h.respond(c, s, err)
}

// HandleExtend 延長到期時間
func (h *Handler) HandleExtend(c *gin.Context) {
	var req ExtendRequest
	if c.Request.ContentLength > 0 && !handlers.BindJSON(c, &req) {
		return
	}

	var by time.Duration
	if req.By != "" {
		d, err := time.ParseDuration(req.By)
		if err != nil || d <= 0 {
			handlers.RespondError(c, common.NewValidationError("by must be a positive duration"))
			return
		}
		by = d
	}

	s, err := h.manager.Extend(c.Request.Context(), c.Param("recipeId"), by)
	h.respond(c, s, err)
}

// HandleReset 重設為預設狀態
func (h *Handler) HandleReset(c *gin.Context) {
	s, err := h.manager.Reset(c.Request.Context(), c.Param("recipeId"))
	h.respond(c, s, err)
}

// HandleEnd 結束烹飪進度
func (h *Handler) HandleEnd(c *gin.Context) {
	if err := h.manager.End(c.Request.Context(), c.Param("recipeId")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.SuccessResponse{Success: true})
}

func (h *Handler) respond(c *gin.Context, s *session.Session, err error) {
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		Success: true,
		Session: s,
		Status:  s.Status(h.manager.Now()),
	})
}
