package scaling

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatAmount 將數量轉為顯示字串：
// 小於 1/8 顯示兩位小數；0.25 的倍數顯示為分數或帶分數；其餘顯示兩位小數
func FormatAmount(v float64) string {
	r, ok := FromFloat(v)
	if !ok {
		return trimmedDecimal(v)
	}
	return FormatRational(r)
}

// FormatRational 同 FormatAmount，直接使用分數避免浮點誤差
func FormatRational(r Rational) string {
	v := r.Float64()
	if v < 0.125 {
		return trimmedDecimal(v)
	}
	if !r.IsQuarterMultiple() {
		return trimmedDecimal(v)
	}

	switch {
	case r.Den == 1:
		return strconv.FormatInt(r.Num, 10)
	case r.Num > r.Den:
		return fmt.Sprintf("%d %d/%d", r.Num/r.Den, r.Num%r.Den, r.Den)
	default:
		return fmt.Sprintf("%d/%d", r.Num, r.Den)
	}
}

// trimmedDecimal 兩位小數，中間值一律進位（0.125 → 0.13）
func trimmedDecimal(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
