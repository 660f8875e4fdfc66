package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	tagPattern    = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	blockBreak    = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|li|div|h[1-6])>`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	lineSplitter  = regexp.MustCompile(`\r?\n+`)
)

// cleanText 去除 HTML 標籤與實體並合併空白
func cleanText(s string) string {
	if strings.Contains(s, "<") {
		s = tagPattern.ReplaceAllString(s, " ")
	}
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// cleanLines 依換行與區塊標籤切分後逐行清理，略過空行
func cleanLines(s string) []string {
	s = blockBreak.ReplaceAllString(s, "\n")
	var out []string
	for _, line := range lineSplitter.Split(s, -1) {
		if c := cleanText(line); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// selText 取得節點文字並合併空白
func selText(s *goquery.Selection) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s.Text(), " "))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// asString 將 JSON 值轉為字串，非純量回傳空字串
func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// unique 保留第一次出現的順序
func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// pageTitle 取得 <title> 文字
func pageTitle(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	return selText(doc.Find("title").First())
}
