// Package conversion 將食材數量換算為克數
package conversion

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"recipe-importer/internal/core/ingredient"
)

// Confidence 換算可信度
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result 換算結果，不會被保存
type Result struct {
	Grams         int        `json:"grams"`
	GramsDisplay  string     `json:"gramsDisplay"`
	IsConvertible bool       `json:"isConvertible"`
	Confidence    Confidence `json:"confidence"`
}

var unavailable = Result{Confidence: ConfidenceLow}

// ConvertToGrams 先查食材專屬表，再查通用單位表
func ConvertToGrams(tok ingredient.Token) Result {
	if !tok.HasAmount() || tok.AmountValue() <= 0 || tok.Unit == "" {
		return unavailable
	}

	unit := baseUnit(tok.Unit)
	item := normalizeItem(tok.Item)
	amount := tok.AmountValue()

	if factor, ok := densityFor(item, unit); ok {
		return gramsResult(amount*factor, ConfidenceHigh)
	}

	if factor, ok := unitGrams[unit]; ok {
		confidence := ConfidenceLow
		if item != "" {
			confidence = ConfidenceMedium
		}
		return gramsResult(amount*factor, confidence)
	}

	return unavailable
}

// IsConvertibleToGrams 與 ConvertToGrams 相同的查表順序，但不計算結果
func IsConvertibleToGrams(tok ingredient.Token) bool {
	if !tok.HasAmount() || tok.AmountValue() <= 0 || tok.Unit == "" {
		return false
	}
	unit := baseUnit(tok.Unit)
	if _, ok := densityFor(normalizeItem(tok.Item), unit); ok {
		return true
	}
	_, ok := unitGrams[unit]
	return ok
}

// ConvertAll 逐一換算，順序與輸入相同
func ConvertAll(tokens []ingredient.Token) []Result {
	results := make([]Result, len(tokens))
	for i, tok := range tokens {
		results[i] = ConvertToGrams(tok)
	}
	return results
}

// ConvertibleUnits 回傳可換算為克的單位（排序後）
func ConvertibleUnits() []string {
	units := make([]string, 0, len(unitAliases))
	for alias, base := range unitAliases {
		if _, ok := unitGrams[base]; ok {
			units = append(units, alias)
		}
	}
	sort.Strings(units)
	return units
}

// DisplayWithConfidence 依可信度加註 (approx.) 或 (est.)
func DisplayWithConfidence(r Result) string {
	if !r.IsConvertible {
		return ""
	}
	switch r.Confidence {
	case ConfidenceMedium:
		return r.GramsDisplay + " (approx.)"
	case ConfidenceLow:
		return r.GramsDisplay + " (est.)"
	default:
		return r.GramsDisplay
	}
}

// FormatGrams 克數顯示字串
func FormatGrams(grams int) string {
	return fmt.Sprintf("%dg", grams)
}

func gramsResult(raw float64, confidence Confidence) Result {
	grams := int(math.Round(raw))
	return Result{
		Grams:         grams,
		GramsDisplay:  FormatGrams(grams),
		IsConvertible: true,
		Confidence:    confidence,
	}
}

func baseUnit(unit string) string {
	u := ingredient.NormalizeUnit(unit)
	if u == "" {
		u = strings.ToLower(strings.TrimSpace(unit))
	}
	if base, ok := unitAliases[u]; ok {
		return base
	}
	return u
}

func normalizeItem(item string) string {
	return strings.Join(strings.Fields(strings.ToLower(item)), " ")
}

// densityFor 依特異性排序候選：完全相同、品名包含的鍵（長者優先）、包含品名的鍵（短者優先），
// 取第一個有該單位資料的候選
func densityFor(item, unit string) (float64, bool) {
	if item == "" {
		return 0, false
	}

	var exact, contained, containing []*density
	for i := range densities {
		d := &densities[i]
		switch {
		case d.name == item:
			exact = append(exact, d)
		case strings.Contains(item, d.name):
			contained = append(contained, d)
		case strings.Contains(d.name, item):
			containing = append(containing, d)
		}
	}
	sort.SliceStable(contained, func(i, j int) bool { return len(contained[i].name) > len(contained[j].name) })
	sort.SliceStable(containing, func(i, j int) bool { return len(containing[i].name) < len(containing[j].name) })

	for _, group := range [][]*density{exact, contained, containing} {
		for _, d := range group {
			if factor, ok := d.grams[unit]; ok {
				return factor, true
			}
		}
	}
	return 0, false
}
