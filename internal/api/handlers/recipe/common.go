package recipe

import (
	"recipe-importer/internal/core/conversion"
	"recipe-importer/internal/core/ingredient"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/core/scaling"
)

// ImportRequest 依網址匯入
type ImportRequest struct {
	URL string `json:"url" binding:"required"`
}

// ExtractRequest 由呼叫端提供已下載的 HTML
type ExtractRequest struct {
	URL  string `json:"url" binding:"required"`
	HTML string `json:"html" binding:"required"`
}

// RecipeResponse 單一食譜
type RecipeResponse struct {
	Success bool           `json:"success"`
	Recipe  *recipe.Recipe `json:"recipe"`
}

// ScaledRecipeResponse 縮放後的食譜
type ScaledRecipeResponse struct {
	Success     bool                  `json:"success"`
	Recipe      *recipe.Recipe        `json:"recipe"`
	Multiplier  float64               `json:"multiplier"`
	Ingredients []scaling.ScaledToken `json:"ingredients"`
}

// ParseRequest 解析食材文字
type ParseRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// ParseResponse 解析結果
type ParseResponse struct {
	Success     bool               `json:"success"`
	Ingredients []ingredient.Token `json:"ingredients"`
}

// ScaleRequest ingredients 與 lines 擇一；lines 會先解析
type ScaleRequest struct {
	Ingredients []ingredient.Token `json:"ingredients"`
	Lines       []string           `json:"lines"`
	Multiplier  float64            `json:"multiplier" binding:"required"`
	ShowGrams   bool               `json:"showGrams"`
}

// ScaleResponse 縮放結果
type ScaleResponse struct {
	Success     bool                  `json:"success"`
	Multiplier  float64               `json:"multiplier"`
	Ingredients []scaling.ScaledToken `json:"ingredients"`
}

// ConvertRequest ingredient 與 line 擇一
type ConvertRequest struct {
	Ingredient *ingredient.Token `json:"ingredient"`
	Line       string            `json:"line"`
}

// ConvertResponse 克數換算結果
type ConvertResponse struct {
	Success    bool              `json:"success"`
	Ingredient ingredient.Token  `json:"ingredient"`
	Conversion conversion.Result `json:"conversion"`
	Display    string            `json:"display,omitempty"`
}

// UnitsResponse 單位與倍率清單
type UnitsResponse struct {
	Success          bool                       `json:"success"`
	Units            []string                   `json:"units"`
	ConvertibleUnits []string                   `json:"convertibleUnits"`
	Multipliers      []scaling.MultiplierOption `json:"multipliers"`
}
