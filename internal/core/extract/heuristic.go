package extract

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"recipe-importer/internal/core/ingredient"
	"recipe-importer/internal/core/recipe"
	"recipe-importer/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

const (
	maxSteps               = 20
	maxIngredientParagraph = 200
	minListStep            = 10
	minParagraphStep       = 20
)

var (
	ingredientHeading  = regexp.MustCompile(`(?i)ingredient|shopping|grocery`)
	instructionHeading = regexp.MustCompile(`(?i)instruction|method|direction|step|preparation|how to|recipe`)
	tipHeading         = regexp.MustCompile(`(?i)tip|note|chef|pro|hint|advice`)

	numberedLine = regexp.MustCompile(`^\d+\.?\s+`)
	cookingVerb  = regexp.MustCompile(`(?i)\b(?:mix|stir|add|bake|cook|heat|combine|whisk|fold|pour|place|remove)\b`)
)

type blockKind int

const (
	blockHeading blockKind = iota
	blockItem
	blockParagraph
)

// block 攤平後的內容單位；level 只對標題有意義
type block struct {
	kind    blockKind
	level   int
	ordered bool
	text    string
}

// Heuristic 先以 readability 取出主要內容，再依標題切段
type Heuristic struct{}

func (Heuristic) Kind() Kind { return KindHeuristic }

func (Heuristic) Extract(_ context.Context, _ *Chain, page *Page) (*recipe.Recipe, bool) {
	pageURL, _ := url.Parse(page.URL)
	article, err := readability.FromReader(strings.NewReader(page.HTML), pageURL)
	if err != nil {
		common.LogDebug("readability 擷取失敗", zap.String("url", page.URL), zap.Error(err))
		return nil, false
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, false
	}

	content, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		common.LogDebug("文章內容解析失敗", zap.String("url", page.URL), zap.Error(err))
		return nil, false
	}

	blocks := flattenBlocks(content.Selection)
	lines := heuristicIngredients(blocks)
	steps := heuristicSteps(blocks, page.Doc)
	if len(lines) == 0 || len(steps) == 0 {
		return nil, false
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = selText(page.Doc.Find("h1").First())
	}

	return &recipe.Recipe{
		Title:       title,
		Author:      strings.TrimSpace(article.Byline),
		Ingredients: ingredient.ParseLines(lines),
		Steps:       steps,
		Tips:        heuristicTips(blocks),
	}, true
}

// flattenBlocks 依文件順序列出標題、清單項目與段落；巢狀的項目併入外層
func flattenBlocks(root *goquery.Selection) []block {
	var blocks []block
	root.Find("h1, h2, h3, h4, li, p").Each(func(_ int, s *goquery.Selection) {
		switch tag := goquery.NodeName(s); tag {
		case "h1", "h2", "h3", "h4":
			blocks = append(blocks, block{kind: blockHeading, level: int(tag[1] - '0'), text: selText(s)})
		case "li":
			if s.ParentsFiltered("li").Length() > 0 {
				return
			}
			blocks = append(blocks, block{
				kind:    blockItem,
				ordered: s.Closest("ol, ul").Is("ol"),
				text:    selText(s),
			})
		case "p":
			if s.ParentsFiltered("li, p").Length() > 0 {
				return
			}
			blocks = append(blocks, block{kind: blockParagraph, text: selText(s)})
		}
	})
	return blocks
}

// section 找到第一個符合的標題，回傳到下一個同級或更高級標題之前的區塊
func section(blocks []block, match func(string) bool) ([]block, bool) {
	for i, b := range blocks {
		if b.kind != blockHeading || !match(b.text) {
			continue
		}
		end := len(blocks)
		for j := i + 1; j < len(blocks); j++ {
			if blocks[j].kind == blockHeading && blocks[j].level <= b.level {
				end = j
				break
			}
		}
		return blocks[i+1 : end], true
	}
	return nil, false
}

func collect(blocks []block, keep func(block) bool) []string {
	var out []string
	for _, b := range blocks {
		if b.text != "" && keep(b) {
			out = append(out, b.text)
		}
	}
	return out
}

func heuristicIngredients(blocks []block) []string {
	sec, ok := section(blocks, ingredientHeading.MatchString)
	if !ok {
		return nil
	}
	if items := collect(sec, func(b block) bool { return b.kind == blockItem }); len(items) > 0 {
		return items
	}
	return collect(sec, func(b block) bool {
		return b.kind == blockParagraph && runeLen(b.text) < maxIngredientParagraph
	})
}

// isInstructionHeading 同時符合食材關鍵字的標題（例如 "Recipe Ingredients"）不算
func isInstructionHeading(text string) bool {
	return instructionHeading.MatchString(text) && !ingredientHeading.MatchString(text)
}

func heuristicSteps(blocks []block, doc *goquery.Document) []string {
	var steps []string

	if sec, ok := section(blocks, isInstructionHeading); ok {
		steps = collect(sec, func(b block) bool {
			return b.kind == blockItem && b.ordered && runeLen(b.text) > minListStep
		})
		if len(steps) == 0 {
			steps = collect(sec, func(b block) bool {
				return b.kind == blockItem && runeLen(b.text) > minListStep
			})
		}
		if len(steps) == 0 {
			steps = collect(sec, func(b block) bool {
				return b.kind == blockParagraph && runeLen(b.text) > minParagraphStep
			})
		}
	}

	if len(steps) == 0 && doc != nil {
		doc.Find("p, div").Each(func(_ int, s *goquery.Selection) {
			text := selText(s)
			if numberedLine.MatchString(text) && cookingVerb.MatchString(text) && runeLen(text) > minParagraphStep {
				steps = append(steps, text)
			}
		})
	}

	if len(steps) == 0 && doc != nil {
		doc.Find(`[class*="step"], [class*="instruction"], [id*="step"], [id*="instruction"]`).Each(func(_ int, s *goquery.Selection) {
			if text := selText(s); runeLen(text) > minParagraphStep {
				steps = append(steps, text)
			}
		})
	}

	steps = unique(steps)
	if len(steps) > maxSteps {
		steps = steps[:maxSteps]
	}
	return steps
}

func heuristicTips(blocks []block) []string {
	sec, ok := section(blocks, tipHeading.MatchString)
	if !ok {
		return nil
	}
	return collect(sec, func(b block) bool {
		return b.kind == blockItem || b.kind == blockParagraph
	})
}

var _ Strategy = Heuristic{}
