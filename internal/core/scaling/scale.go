// Package scaling 依倍率縮放食材數量並產生顯示字串
package scaling

import (
	"math"

	"recipe-importer/internal/core/conversion"
	"recipe-importer/internal/core/ingredient"
)

// ScaledToken 保留原始食材並附加縮放與克數資訊
type ScaledToken struct {
	ingredient.Token
	ScaledAmount        *float64 `json:"scaledAmount,omitempty"`
	ScaledAmountDisplay string   `json:"scaledAmountDisplay,omitempty"`
	GramsAmount         *int     `json:"gramsAmount,omitempty"`
	GramsDisplay        string   `json:"gramsDisplay,omitempty"`
}

// Scale 回傳縮放後的食材；沒有數量、倍率為 1 或倍率無效時原樣回傳。
// 顯示字串一律由數值重新計算
func Scale(tok ingredient.Token, multiplier float64) ingredient.Token {
	if !tok.HasAmount() || multiplier == 1 || !validMultiplier(multiplier) {
		return tok
	}
	amount := tok.AmountValue()
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return tok
	}

	value, display := multiply(amount, multiplier)
	return tok.WithAmount(value, display)
}

// ScaleIngredients 縮放整份清單；單一食材出錯時保留原樣並繼續
func ScaleIngredients(tokens []ingredient.Token, multiplier float64, showGrams bool) []ScaledToken {
	out := make([]ScaledToken, len(tokens))
	for i, tok := range tokens {
		out[i] = scaleOne(tok, multiplier, showGrams)
	}
	return out
}

func scaleOne(tok ingredient.Token, multiplier float64, showGrams bool) ScaledToken {
	st := ScaledToken{Token: tok}

	if tok.HasAmount() && multiplier != 1 {
		scaled := Scale(tok, multiplier)
		if scaled.Amount != tok.Amount {
			st.ScaledAmount = scaled.Amount
			st.ScaledAmountDisplay = scaled.AmountDisplay
		}
	}

	if showGrams && validMultiplier(multiplier) {
		base := conversion.ConvertToGrams(tok)
		if base.IsConvertible {
			grams := int(math.Round(float64(base.Grams) * multiplier))
			st.GramsAmount = &grams
			st.GramsDisplay = conversion.FormatGrams(grams)
		}
	}

	return st
}

// multiply 先嘗試分數運算，無法表示時退回浮點
func multiply(amount, multiplier float64) (float64, string) {
	a, okA := FromFloat(amount)
	m, okM := FromFloat(multiplier)
	if okA && okM {
		if r, ok := a.Mul(m); ok {
			return r.Float64(), FormatRational(r)
		}
	}
	v := amount * multiplier
	return v, FormatAmount(v)
}

func validMultiplier(m float64) bool {
	return m > 0 && !math.IsNaN(m) && !math.IsInf(m, 0)
}

// DisplayAmount 取得顯示用數量：優先克數（若要求）、縮放後、原始顯示、重新格式化
func DisplayAmount(st ScaledToken, preferGrams bool) string {
	if preferGrams && st.GramsDisplay != "" {
		return st.GramsDisplay
	}
	if st.ScaledAmountDisplay != "" {
		return st.ScaledAmountDisplay
	}
	if st.AmountDisplay != "" {
		return st.AmountDisplay
	}
	if st.HasAmount() {
		return FormatAmount(st.AmountValue())
	}
	return ""
}
