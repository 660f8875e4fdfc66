// Package duration 將食譜時間字串轉換為分鐘數
package duration

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	isoPattern    = regexp.MustCompile(`(?i)PT(?:(\d+)H)?(?:(\d+)M)?`)
	minutePattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes?|mins?)\b`)
	hourPattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:hours?|hrs?)\b`)
)

// Parse 解析 ISO-8601（PT#H#M）或自由文字的時間，無法解析時回傳 0
func Parse(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if m := isoPattern.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		return atoi(m[1])*60 + atoi(m[2])
	}

	if m := minutePattern.FindStringSubmatch(s); m != nil {
		return atoi(m[1])
	}

	if m := hourPattern.FindStringSubmatch(s); m != nil {
		return atoi(m[1]) * 60
	}

	return 0
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
