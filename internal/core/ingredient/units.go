package ingredient

import (
	"regexp"
	"sort"
	"strings"
)

// 單位詞彙，依類別排列；皆為單數小寫
var vocabulary = []string{
	// volume
	"cup", "c",
	"tablespoon", "tbsp", "tbs", "tb",
	"teaspoon", "tsp", "ts",
	"fluid ounce", "fl oz",
	"pint", "pt",
	"quart", "qt",
	"gallon", "gal",
	"liter", "l",
	"milliliter", "ml",

	// weight
	"pound", "lb",
	"ounce", "oz",
	"gram", "g",
	"kilogram", "kg",

	// count
	"piece", "pc",
	"slice",
	"clove",
	"head",
	"bunch",
	"package", "pkg",
	"can",
	"jar",
	"bottle",
	"box",

	// size
	"large", "medium", "small",
	"whole", "half",
}

// 不規則複數
var irregularPlurals = map[string]string{
	"bunches": "bunch",
	"boxes":   "box",
	"halves":  "half",
}

var spaceRun = regexp.MustCompile(`\s+`)

// Units 回傳支援的單位清單（單數、小寫）
func Units() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// NormalizeUnit 將單位轉為小寫單數形式；不在詞彙表中時回傳空字串
func NormalizeUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(spaceRun.ReplaceAllString(u, " ")))
	if u == "" {
		return ""
	}
	if s, ok := irregularPlurals[u]; ok {
		return s
	}
	if isVocabulary(u) {
		return u
	}
	if strings.HasSuffix(u, "s") && isVocabulary(strings.TrimSuffix(u, "s")) {
		return strings.TrimSuffix(u, "s")
	}
	return ""
}

func isVocabulary(u string) bool {
	for _, v := range vocabulary {
		if v == u {
			return true
		}
	}
	return false
}

// unitAlternation 依長度遞減排列，讓較長的單位優先比對
func unitAlternation() string {
	terms := make([]string, 0, len(vocabulary)+len(irregularPlurals))
	terms = append(terms, vocabulary...)
	for plural := range irregularPlurals {
		terms = append(terms, plural)
	}
	sort.SliceStable(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})

	parts := make([]string, len(terms))
	for i, term := range terms {
		parts[i] = strings.ReplaceAll(regexp.QuoteMeta(term), " ", `\s+`)
	}
	return strings.Join(parts, "|")
}
