package extract

import (
	"context"
	"strings"

	"recipe-importer/internal/core/ingredient"
	"recipe-importer/internal/core/recipe"

	"github.com/PuerkitoBio/goquery"
)

// Microdata 從 itemtype 含 Recipe 的元素讀取 itemprop
type Microdata struct{}

func (Microdata) Kind() Kind { return KindMicrodata }

func (Microdata) Extract(_ context.Context, _ *Chain, page *Page) (*recipe.Recipe, bool) {
	root := page.Doc.Find(`[itemtype*="Recipe"]`).First()
	if root.Length() == 0 {
		return nil, false
	}

	r := &recipe.Recipe{
		Title:  selText(itemprop(root, "name")),
		Author: selText(itemprop(root, "author")),
		Image:  microdataImage(itemprop(root, "image")),
	}

	var lines []string
	root.Find(`[itemprop="recipeIngredient"]`).Each(func(_ int, s *goquery.Selection) {
		lines = append(lines, selText(s))
	})
	if len(lines) == 0 {
		root.Find(`[itemprop="ingredients"]`).Each(func(_ int, s *goquery.Selection) {
			lines = append(lines, selText(s))
		})
	}
	r.Ingredients = ingredient.ParseLines(lines)

	root.Find(`[itemprop="recipeInstructions"]`).Each(func(_ int, s *goquery.Selection) {
		// 整個清單標成 recipeInstructions 時逐項拆開
		if items := s.Find("li"); items.Length() > 0 {
			items.Each(func(_ int, li *goquery.Selection) {
				if text := selText(li); text != "" {
					r.Steps = append(r.Steps, text)
				}
			})
			return
		}
		if text := selText(s); text != "" {
			r.Steps = append(r.Steps, text)
		}
	})

	return r, true
}

func itemprop(root *goquery.Selection, name string) *goquery.Selection {
	return root.Find(`[itemprop="` + name + `"]`).First()
}

// microdataImage 圖片取屬性而非文字
func microdataImage(s *goquery.Selection) string {
	for _, attr := range []string{"src", "content", "href"} {
		if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
			return v
		}
	}
	return ""
}

var _ Strategy = Microdata{}
