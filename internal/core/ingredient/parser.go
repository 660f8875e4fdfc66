package ingredient

import (
	"regexp"
	"strconv"
	"strings"
)

const glyphClass = `[¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]`

// 數量：可選整數加 unicode 分數，或整數／小數／分數／帶分數，後接可選範圍
const amountExpr = `(?:(?:\d+\s*)?` + glyphClass +
	`|\d+(?:\s+\d+/\d+|/\d+|\.\d+)?)` + rangeSuffix

const rangeSuffix = `(?:\s*[-–]\s*\d+(?:\.\d+)?)?`

var glyphValues = map[rune]float64{
	'¼': 1.0 / 4, '½': 1.0 / 2, '¾': 3.0 / 4,
	'⅐': 1.0 / 7, '⅑': 1.0 / 9, '⅒': 1.0 / 10,
	'⅓': 1.0 / 3, '⅔': 2.0 / 3,
	'⅕': 1.0 / 5, '⅖': 2.0 / 5, '⅗': 3.0 / 5, '⅘': 4.0 / 5,
	'⅙': 1.0 / 6, '⅚': 5.0 / 6,
	'⅛': 1.0 / 8, '⅜': 3.0 / 8, '⅝': 5.0 / 8, '⅞': 7.0 / 8,
}

var (
	linePattern = regexp.MustCompile(`(?i)^(` + amountExpr + `)` +
		`(?:\s*(` + unitAlternation() + `)s?\b)?` +
		`\s*(.*?)` +
		`(?:\s*\(([^)]+)\))?$`)

	leadingAmount = regexp.MustCompile(`^(` + amountExpr + `)`)
	leadingUnit   = regexp.MustCompile(`(?i)^(` + unitAlternation() + `)s?\b`)

	rangePattern    = regexp.MustCompile(`^(.+?)\s*[-–]\s*\d+(?:\.\d+)?$`)
	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)

	leadingJunk  = regexp.MustCompile(`^[,.;:\-\s]+`)
	trailingJunk = regexp.MustCompile(`[,.;:\s]+$`)
)

// Parse 解析一行食材文字，永不失敗；無法辨識數量時整行視為 Item
func Parse(raw string) Token {
	tok := Token{Raw: raw}
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return tok
	}

	if m := linePattern.FindStringSubmatch(cleaned); m != nil {
		tok.setAmount(m[1])
		tok.Unit = NormalizeUnit(m[2])
		tok.Item = cleanItem(m[3])
		tok.Note = strings.TrimSpace(m[4])
		return tok
	}

	// 整體樣式失敗時，只取開頭數量，再嘗試從剩餘文字開頭取單位
	if m := leadingAmount.FindStringSubmatch(cleaned); m != nil {
		tok.setAmount(m[1])
		remaining := strings.TrimSpace(cleaned[len(m[0]):])
		if u := leadingUnit.FindStringSubmatch(remaining); u != nil {
			tok.Unit = NormalizeUnit(u[1])
			remaining = remaining[len(u[0]):]
		}
		tok.Item = cleanItem(remaining)
		return tok
	}

	tok.Item = cleaned
	return tok
}

// ParseLines 解析多行食材，略過空行並保留順序
func ParseLines(lines []string) []Token {
	tokens := make([]Token, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tokens = append(tokens, Parse(line))
	}
	return tokens
}

// setAmount 數值無效（例如分母為 0）時不設定 Amount 與 AmountDisplay
func (t *Token) setAmount(text string) {
	text = strings.TrimSpace(text)
	v, ok := ParseAmount(text)
	if !ok {
		return
	}
	t.Amount = &v
	t.AmountDisplay = text
}

// ParseAmount 將數量文字轉為數值；範圍取下限
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	for _, r := range s {
		value, ok := glyphValues[r]
		if !ok {
			continue
		}
		rest := strings.TrimSpace(strings.Replace(s, string(r), "", 1))
		if rest == "" {
			return value, true
		}
		whole, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return value, true
		}
		return whole + value, true
	}

	if m := mixedPattern.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac, ok := divide(m[2], m[3])
		if !ok {
			return 0, false
		}
		return whole + frac, true
	}

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		return divide(m[1], m[2])
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func divide(num, den string) (float64, bool) {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

func cleanItem(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	s = leadingJunk.ReplaceAllString(s, "")
	s = trailingJunk.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
