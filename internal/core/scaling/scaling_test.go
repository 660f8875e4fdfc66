package scaling

import (
	"math"
	"testing"

	"recipe-importer/internal/core/ingredient"
)

func amountToken(v float64) ingredient.Token {
	return ingredient.Token{Raw: "x", Amount: &v}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.1, "0.1"},
		{0.0625, "0.06"},
		{0.25, "1/4"},
		{0.5, "1/2"},
		{0.75, "3/4"},
		{1, "1"},
		{1.5, "1 1/2"},
		{2.75, "2 3/4"},
		{3, "3"},
		{1.0 / 3, "0.33"},
		{0.125, "0.13"},
		{0.625, "0.63"},
		{1.125, "1.13"},
		{0.005, "0.01"},
		{2.2, "2.2"},
		{12, "12"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		amount     float64
		multiplier float64
		want       float64
		display    string
	}{
		{1, 1.5, 1.5, "1 1/2"},
		{2, 0.5, 1, "1"},
		{0.75, 2, 1.5, "1 1/2"},
		{1.0 / 3, 3, 1, "1"},
		{1.0 / 3, 2, 2.0 / 3, "0.67"},
		{0.25, 0.25, 0.0625, "0.06"},
	}
	for _, tt := range tests {
		got := Scale(amountToken(tt.amount), tt.multiplier)
		if math.Abs(got.AmountValue()-tt.want) > 1e-6 {
			t.Errorf("Scale(%v, %v) amount = %v, want %v", tt.amount, tt.multiplier, got.AmountValue(), tt.want)
		}
		if got.AmountDisplay != tt.display {
			t.Errorf("Scale(%v, %v) display = %q, want %q", tt.amount, tt.multiplier, got.AmountDisplay, tt.display)
		}
	}
}

func TestScaleUnchanged(t *testing.T) {
	noAmount := ingredient.Parse("salt to taste")
	if got := Scale(noAmount, 2); got != noAmount {
		t.Errorf("token without amount changed: %+v", got)
	}

	tok := ingredient.Parse("1 1/2 cups flour")
	got := Scale(tok, 1)
	if got.AmountDisplay != "1 1/2" || got.Amount != tok.Amount {
		t.Errorf("multiplier 1 changed token: %+v", got)
	}

	if got := Scale(tok, -1); got.Amount != tok.Amount {
		t.Errorf("negative multiplier changed token: %+v", got)
	}
}

func TestScaleKeepsRaw(t *testing.T) {
	tok := ingredient.Parse("2 cups all-purpose flour")
	got := Scale(tok, 3)
	if got.Raw != tok.Raw {
		t.Errorf("raw = %q, want %q", got.Raw, tok.Raw)
	}
	if got.Unit != "cup" || got.Item != "all-purpose flour" {
		t.Errorf("unit/item changed: %+v", got)
	}
	if got.AmountDisplay != "6" {
		t.Errorf("display = %q, want 6", got.AmountDisplay)
	}
}

func TestScaleComposition(t *testing.T) {
	pairs := [][2]float64{{1.5, 2}, {0.5, 0.5}, {3, 0.25}, {1.25, 1.75}, {2.5, 0.3}}
	for _, line := range []string{"1 1/2 cups flour", "⅓ cup oil", "3/4 tsp salt", "2 eggs"} {
		tok := ingredient.Parse(line)
		for _, p := range pairs {
			seq := Scale(Scale(tok, p[0]), p[1])
			once := Scale(tok, p[0]*p[1])
			if math.Abs(seq.AmountValue()-once.AmountValue()) > 1e-6 {
				t.Errorf("%q x%v x%v: sequential %v != direct %v", line, p[0], p[1], seq.AmountValue(), once.AmountValue())
			}
			if seq.AmountDisplay != FormatAmount(seq.AmountValue()) {
				t.Errorf("%q: display %q not derived from value %v", line, seq.AmountDisplay, seq.AmountValue())
			}
		}
	}
}

func TestScaleIngredients(t *testing.T) {
	toks := ingredient.ParseLines([]string{
		"2 cups flour",
		"1 egg",
		"salt to taste",
	})

	got := ScaleIngredients(toks, 1.5, true)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	flour := got[0]
	if flour.AmountDisplay != "2" {
		t.Errorf("original display lost: %q", flour.AmountDisplay)
	}
	if flour.ScaledAmount == nil || *flour.ScaledAmount != 3 || flour.ScaledAmountDisplay != "3" {
		t.Errorf("flour scaled = %+v / %q", flour.ScaledAmount, flour.ScaledAmountDisplay)
	}
	if flour.GramsAmount == nil || *flour.GramsAmount != 375 || flour.GramsDisplay != "375g" {
		t.Errorf("flour grams = %+v / %q", flour.GramsAmount, flour.GramsDisplay)
	}

	egg := got[1]
	if egg.ScaledAmountDisplay != "1 1/2" {
		t.Errorf("egg display = %q", egg.ScaledAmountDisplay)
	}
	if egg.GramsAmount != nil {
		t.Errorf("egg should not convert: %+v", egg.GramsAmount)
	}

	salt := got[2]
	if salt.ScaledAmount != nil || salt.Item != "salt to taste" {
		t.Errorf("salt = %+v", salt)
	}
}

func TestDisplayAmount(t *testing.T) {
	toks := ingredient.ParseLines([]string{"2 cups flour", "salt"})
	scaled := ScaleIngredients(toks, 2, true)

	if got := DisplayAmount(scaled[0], true); got != "500g" {
		t.Errorf("prefer grams = %q, want 500g", got)
	}
	if got := DisplayAmount(scaled[0], false); got != "4" {
		t.Errorf("scaled = %q, want 4", got)
	}
	if got := DisplayAmount(ScaleIngredients(toks, 1, false)[0], false); got != "2" {
		t.Errorf("unscaled = %q, want 2", got)
	}
	if got := DisplayAmount(scaled[1], false); got != "" {
		t.Errorf("no amount = %q, want empty", got)
	}
}

func TestSnapMultiplier(t *testing.T) {
	tests := map[float64]float64{
		0.26: 0.25,
		1.04: 1,
		1.46: 1.5,
		2.2:  2.2,
		3.05: 3,
		4:    4,
	}
	for in, want := range tests {
		if got := SnapMultiplier(in); got != want {
			t.Errorf("SnapMultiplier(%v) = %v, want %v", in, got, want)
		}
	}
	if n := len(MultiplierOptions()); n != 10 {
		t.Errorf("options = %d, want 10", n)
	}
}

func TestRational(t *testing.T) {
	r, ok := FromFloat(0.375)
	if !ok || r.Num != 3 || r.Den != 8 {
		t.Fatalf("FromFloat(0.375) = %+v, %v", r, ok)
	}
	third, _ := FromFloat(1.0 / 3)
	if third.Num != 1 || third.Den != 3 {
		t.Fatalf("FromFloat(1/3) = %+v", third)
	}
	three, _ := NewRational(6, 2)
	prod, ok := third.Mul(three)
	if !ok || prod.Num != 1 || prod.Den != 1 {
		t.Errorf("1/3 * 3 = %+v", prod)
	}
	if _, err := NewRational(1, 0); err == nil {
		t.Error("expected error for zero denominator")
	}
	if _, ok := FromFloat(math.NaN()); ok {
		t.Error("NaN should not convert")
	}
}
