package scaling

import (
	"fmt"
	"math"
)

const (
	maxDenominator = 100000
	maxExactValue  = 1 << 40
)

// Rational 以分子/分母表示的數量，恆為約分後且分母為正
type Rational struct {
	Num int64
	Den int64
}

// NewRational 建立並約分
func NewRational(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, fmt.Errorf("zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	return Rational{Num: num, Den: den}.reduce(), nil
}

// FromFloat 以連分數求最接近的分數；NaN、無限大、負數或過大的值回傳 false
func FromFloat(v float64) (Rational, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxExactValue {
		return Rational{}, false
	}

	var h0, h1 int64 = 0, 1
	var k0, k1 int64 = 1, 0
	x := v
	for i := 0; i < 64; i++ {
		a := int64(math.Floor(x))
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 > maxDenominator {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		if math.Abs(v-float64(h1)/float64(k1)) < 1e-9 {
			break
		}
		frac := x - float64(a)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}
	if k1 == 0 {
		return Rational{}, false
	}
	return Rational{Num: h1, Den: k1}.reduce(), true
}

// Mul 相乘並約分；溢位時回傳 false
func (r Rational) Mul(o Rational) (Rational, bool) {
	g1 := gcd(r.Num, o.Den)
	g2 := gcd(o.Num, r.Den)
	a, d := r.Num/g1, o.Den/g1
	b, c := o.Num/g2, r.Den/g2

	num, ok1 := mulInt64(a, b)
	den, ok2 := mulInt64(c, d)
	if !ok1 || !ok2 || den == 0 {
		return Rational{}, false
	}
	return Rational{Num: num, Den: den}.reduce(), true
}

// Float64 轉為浮點數
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IsQuarterMultiple 是否為 0.25 的整數倍
func (r Rational) IsQuarterMultiple() bool {
	return r.Den == 1 || r.Den == 2 || r.Den == 4
}

func (r Rational) reduce() Rational {
	if r.Num == 0 {
		return Rational{Num: 0, Den: 1}
	}
	g := gcd(r.Num, r.Den)
	return Rational{Num: r.Num / g, Den: r.Den / g}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}
