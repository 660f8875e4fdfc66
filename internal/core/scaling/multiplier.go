package scaling

import "math"

const snapTolerance = 0.05

// MultiplierOption 介面上的倍率選項
type MultiplierOption struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

var multiplierOptions = []MultiplierOption{
	{0.25, "¼×"},
	{0.5, "½×"},
	{0.75, "¾×"},
	{1, "1×"},
	{1.25, "1¼×"},
	{1.5, "1½×"},
	{1.75, "1¾×"},
	{2, "2×"},
	{2.5, "2½×"},
	{3, "3×"},
}

// MultiplierOptions 常用倍率
func MultiplierOptions() []MultiplierOption {
	out := make([]MultiplierOption, len(multiplierOptions))
	copy(out, multiplierOptions)
	return out
}

// SnapMultiplier 與常用倍率相差 0.05 以內時吸附過去
func SnapMultiplier(v float64) float64 {
	for _, opt := range multiplierOptions {
		if math.Abs(v-opt.Value) <= snapTolerance {
			return opt.Value
		}
	}
	return v
}
