package ingredient

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		amount  float64
		display string
		unit    string
		item    string
		note    string
	}{
		{"2 cups all-purpose flour", 2, "2", "cup", "all-purpose flour", ""},
		{"1 1/2 cups bread flour", 1.5, "1 1/2", "cup", "bread flour", ""},
		{"3/4 tsp salt", 0.75, "3/4", "tsp", "salt", ""},
		{"3 cloves garlic, minced", 3, "3", "clove", "garlic, minced", ""},
		{"2-3 tbsp olive oil", 2, "2-3", "tbsp", "olive oil", ""},
		{"2–3 Tablespoons butter", 2, "2–3", "tablespoon", "butter", ""},
		{"½ cup sugar", 0.5, "½", "cup", "sugar", ""},
		{"1½ cups milk", 1.5, "1½", "cup", "milk", ""},
		{"1 ⅓ cups water", 1 + 1.0/3, "1 ⅓", "cup", "water", ""},
		{"2½-3 cups stock", 2.5, "2½-3", "cup", "stock", ""},
		{"½ – 1 tsp chili flakes", 0.5, "½ – 1", "tsp", "chili flakes", ""},
		{"1.5 lbs chicken thighs", 1.5, "1.5", "lb", "chicken thighs", ""},
		{"2 large eggs", 2, "2", "large", "eggs", ""},
		{"1 cup milk (whole)", 1, "1", "cup", "milk", "whole"},
		{"2 bunches cilantro", 2, "2", "bunch", "cilantro", ""},
		{"1 tbsp. soy sauce", 1, "1", "tbsp", "soy sauce", ""},
		{"200g dark chocolate", 200, "200", "g", "dark chocolate", ""},
		{"2 fl oz cream", 2, "2", "fl oz", "cream", ""},
		{"1 egg", 1, "1", "", "egg", ""},
		{"2 garlic cloves", 2, "2", "", "garlic cloves", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tok := Parse(tt.raw)
			if tok.Raw != tt.raw {
				t.Errorf("raw = %q, want %q", tok.Raw, tt.raw)
			}
			if !tok.HasAmount() {
				t.Fatalf("amount missing")
			}
			if !approx(tok.AmountValue(), tt.amount) {
				t.Errorf("amount = %v, want %v", tok.AmountValue(), tt.amount)
			}
			if tok.AmountDisplay != tt.display {
				t.Errorf("amountDisplay = %q, want %q", tok.AmountDisplay, tt.display)
			}
			if tok.Unit != tt.unit {
				t.Errorf("unit = %q, want %q", tok.Unit, tt.unit)
			}
			if tok.Item != tt.item {
				t.Errorf("item = %q, want %q", tok.Item, tt.item)
			}
			if tok.Note != tt.note {
				t.Errorf("note = %q, want %q", tok.Note, tt.note)
			}
		})
	}
}

func TestParseWithoutAmount(t *testing.T) {
	lines := []string{
		"Salt and pepper to taste",
		"  fresh basil leaves  ",
		"a pinch of nutmeg (optional)",
		"Zest of one lemon",
	}

	for _, raw := range lines {
		tok := Parse(raw)
		if tok.HasAmount() {
			t.Errorf("Parse(%q) amount = %v, want none", raw, tok.AmountValue())
		}
		if tok.AmountDisplay != "" {
			t.Errorf("Parse(%q) amountDisplay = %q, want empty", raw, tok.AmountDisplay)
		}
		if want := trimmed(raw); tok.Item != want {
			t.Errorf("Parse(%q) item = %q, want %q", raw, tok.Item, want)
		}
		if tok.Raw != raw {
			t.Errorf("Parse(%q) raw changed to %q", raw, tok.Raw)
		}
	}
}

func trimmed(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

func TestParseInvalidAmount(t *testing.T) {
	tok := Parse("1/0 cup flour")
	if tok.HasAmount() || tok.AmountDisplay != "" {
		t.Fatalf("expected amount omitted, got %+v", tok)
	}
	if tok.Unit != "cup" || tok.Item != "flour" {
		t.Errorf("unit/item = %q/%q, want cup/flour", tok.Unit, tok.Item)
	}
}

func TestParseFallbackAcrossLineBreak(t *testing.T) {
	tok := Parse("2 cups flour\nsifted")
	if !tok.HasAmount() || !approx(tok.AmountValue(), 2) {
		t.Fatalf("amount = %+v, want 2", tok.Amount)
	}
	if tok.Unit != "cup" {
		t.Errorf("unit = %q, want cup", tok.Unit)
	}
	if tok.Item != "flour sifted" {
		t.Errorf("item = %q, want %q", tok.Item, "flour sifted")
	}
}

func TestParseAmountOnly(t *testing.T) {
	tok := Parse("3")
	if !tok.HasAmount() || tok.AmountValue() != 3 {
		t.Fatalf("amount = %+v, want 3", tok.Amount)
	}
	if tok.Item != "" {
		t.Errorf("item = %q, want empty", tok.Item)
	}
}

func TestDisplayMatchesAmount(t *testing.T) {
	lines := []string{"1 1/2 cups flour", "3/4 tsp salt", "⅔ cup oats", "2 ¼ cups sugar", "0.5 oz yeast"}
	for _, line := range lines {
		tok := Parse(line)
		v, ok := ParseAmount(tok.AmountDisplay)
		if !ok {
			t.Fatalf("%q: display %q does not parse", line, tok.AmountDisplay)
		}
		if !approx(v, tok.AmountValue()) {
			t.Errorf("%q: display value %v != amount %v", line, v, tok.AmountValue())
		}
	}
}

func TestParseLines(t *testing.T) {
	toks := ParseLines([]string{"2 cups flour", "", "   ", "1 egg"})
	if len(toks) != 2 {
		t.Fatalf("len = %d, want 2", len(toks))
	}
	if toks[0].Item != "flour" || toks[1].Item != "egg" {
		t.Errorf("order not preserved: %+v", toks)
	}
}

func TestNormalizeUnit(t *testing.T) {
	tests := map[string]string{
		"Cups":         "cup",
		"cloves":       "clove",
		"lbs":          "lb",
		"BOXES":        "box",
		"fl  oz":       "fl oz",
		"fluid ounces": "fluid ounce",
		"handful":      "",
		"":             "",
	}
	for in, want := range tests {
		if got := NormalizeUnit(in); got != want {
			t.Errorf("NormalizeUnit(%q) = %q, want %q", in, got, want)
		}
	}
}
