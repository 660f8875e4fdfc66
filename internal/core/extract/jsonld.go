package extract

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"recipe-importer/internal/core/duration"
	"recipe-importer/internal/core/ingredient"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// instruction 巢狀 HowToSection 的最大深度
const maxInstructionDepth = 8

// JSONLD 從 application/ld+json 區塊擷取 schema.org Recipe
type JSONLD struct{}

func (JSONLD) Kind() Kind { return KindJSONLD }

func (JSONLD) Extract(_ context.Context, _ *Chain, page *Page) (*recipe.Recipe, bool) {
	var node map[string]interface{}

	page.Doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		content := strings.TrimSpace(s.Text())
		if content == "" {
			return true
		}

		data, err := decodeOrdered(content)
		if err != nil {
			common.LogDebug("JSON-LD 解析失敗",
				zap.String("url", page.URL),
				zap.Int("block", i),
				zap.Error(err),
			)
			return true
		}

		if found := findRecipeNode(data); found != nil {
			node = plainObject(found)
			return false
		}
		return true
	})

	if node == nil {
		return nil, false
	}
	return recipeFromJSONLD(node), true
}

// findRecipeNode 以堆疊走訪 JSON 值，依文件順序回傳第一個 @type 為 Recipe 的物件
func findRecipeNode(root interface{}) *jsonObject {
	visited := make(map[uintptr]bool)
	stack := []interface{}{root}

	for len(stack) > 0 {
		n := len(stack) - 1
		current := stack[n]
		stack = stack[:n]

		switch v := current.(type) {
		case *jsonObject:
			if seen(visited, v) {
				continue
			}
			if isRecipeType(v.values["@type"]) {
				return v
			}
			for i := len(v.keys) - 1; i >= 0; i-- {
				stack = append(stack, v.values[v.keys[i]])
			}
		case []interface{}:
			if seen(visited, v) {
				continue
			}
			for i := len(v) - 1; i >= 0; i-- {
				stack = append(stack, v[i])
			}
		}
	}
	return nil
}

// seen 以底層指標辨識同一個物件或陣列
func seen(visited map[uintptr]bool, v interface{}) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return false
	}
	p := rv.Pointer()
	if p == 0 {
		return false
	}
	if visited[p] {
		return true
	}
	visited[p] = true
	return false
}

func isRecipeType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe" || strings.HasSuffix(v, "/Recipe") || strings.HasSuffix(v, ":Recipe")
	case []interface{}:
		for _, item := range v {
			if isRecipeType(item) {
				return true
			}
		}
	}
	return false
}

func recipeFromJSONLD(node map[string]interface{}) *recipe.Recipe {
	r := &recipe.Recipe{
		Title:  cleanText(firstNonEmpty(asString(node["name"]), asString(node["headline"]))),
		Author: jsonldAuthor(node["author"]),
		Image:  jsonldImage(node["image"]),
		Times: recipe.NewTimes(
			duration.Parse(asString(node["prepTime"])),
			duration.Parse(asString(node["cookTime"])),
			duration.Parse(asString(node["totalTime"])),
		),
	}

	lines := jsonldIngredientLines(node["recipeIngredient"])
	if len(lines) == 0 {
		lines = jsonldIngredientLines(node["ingredients"])
	}
	r.Ingredients = ingredient.ParseLines(lines)

	var steps []string
	collectSteps(node["recipeInstructions"], &steps, 0)
	r.Steps = steps

	r.Yield, r.Servings = jsonldYield(node["recipeYield"])
	return r
}

func jsonldAuthor(v interface{}) string {
	switch a := v.(type) {
	case string:
		return cleanText(a)
	case map[string]interface{}:
		return cleanText(asString(a["name"]))
	case []interface{}:
		for _, item := range a {
			if name := jsonldAuthor(item); name != "" {
				return name
			}
		}
	}
	return ""
}

func jsonldImage(v interface{}) string {
	switch img := v.(type) {
	case string:
		return strings.TrimSpace(img)
	case []interface{}:
		if len(img) > 0 {
			return jsonldImage(img[0])
		}
	case map[string]interface{}:
		return strings.TrimSpace(firstNonEmpty(asString(img["url"]), asString(img["contentUrl"])))
	}
	return ""
}

func jsonldIngredientLines(v interface{}) []string {
	switch ing := v.(type) {
	case string:
		return cleanLines(ing)
	case []interface{}:
		lines := make([]string, 0, len(ing))
		for _, item := range ing {
			if line := cleanText(asString(item)); line != "" {
				lines = append(lines, line)
			}
		}
		return lines
	}
	return nil
}

// collectSteps 攤平 recipeInstructions：字串、HowToStep、HowToSection 與巢狀陣列
func collectSteps(v interface{}, steps *[]string, depth int) {
	if depth > maxInstructionDepth {
		return
	}

	switch inst := v.(type) {
	case string:
		for _, line := range cleanLines(inst) {
			appendStep(steps, line)
		}
	case []interface{}:
		for _, item := range inst {
			collectSteps(item, steps, depth+1)
		}
	case map[string]interface{}:
		if items, ok := inst["itemListElement"]; ok {
			collectSteps(items, steps, depth+1)
			return
		}
		for _, key := range []string{"text", "name", "description", "instructions"} {
			if text := cleanText(asString(inst[key])); text != "" {
				appendStep(steps, text)
				return
			}
		}
	}
}

// appendStep 少於 10 個字元的多半是段落標題
func appendStep(steps *[]string, text string) {
	if runeLen(text) < 10 {
		return
	}
	*steps = append(*steps, text)
}

// jsonldYield 數字同時設定份數與 yield 文字；字串只設定 yield；陣列取第一個
func jsonldYield(v interface{}) (string, *int) {
	switch y := v.(type) {
	case json.Number:
		f, err := y.Float64()
		if err != nil {
			return y.String(), nil
		}
		return y.String(), servingsFrom(f)
	case float64:
		return strconv.FormatFloat(y, 'f', -1, 64), servingsFrom(y)
	case string:
		return cleanText(y), nil
	case []interface{}:
		if len(y) > 0 {
			return jsonldYield(y[0])
		}
	}
	return "", nil
}

func servingsFrom(f float64) *int {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ Strategy = JSONLD{}
