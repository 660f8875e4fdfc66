package extract

import (
	"context"
	"errors"
	"testing"
)

type stubFetcher struct {
	pages map[string]string
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, pageURL string) (string, error) {
	f.calls = append(f.calls, pageURL)
	html, ok := f.pages[pageURL]
	if !ok {
		return "", errors.New("not found")
	}
	return html, nil
}

const printRecipeHTML = `<html><head><title>Print</title>
<script type="application/ld+json">{"@type":"Recipe","name":"Printed Stew",
"recipeIngredient":["1 lb beef"],"recipeInstructions":["Brown the beef in batches."]}</script>
</head><body><a href="/print/stew?again=1">print again</a></body></html>`

func TestPrintVersionFollowsLink(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/print/stew": printRecipeHTML,
	}}
	html := `<html><head><title>Stew</title></head><body><a href="/print/stew">Print</a></body></html>`

	r, err := testChain(JSONLD{}, Microdata{}, PrintVersion{Fetcher: f}).
		Extract(context.Background(), html, "https://example.com/stew")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if r.Title != "Printed Stew" {
		t.Errorf("title = %q", r.Title)
	}
	if r.SourceURL != "https://example.com/stew" {
		t.Errorf("sourceUrl = %q", r.SourceURL)
	}
	if len(f.calls) != 1 {
		t.Errorf("fetch calls = %v", f.calls)
	}
}

func TestPrintVersionDepthLimit(t *testing.T) {
	// 列印頁本身沒有食譜但又有列印連結，不應再往下抓
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/print/1": `<html><body><a href="/print/2">print</a></body></html>`,
		"https://example.com/print/2": printRecipeHTML,
	}}
	html := `<html><body><link rel="print" href="/print/1"></body></html>`

	_, err := testChain(JSONLD{}, PrintVersion{Fetcher: f}).
		Extract(context.Background(), html, "https://example.com/r")
	if !errors.Is(err, ErrExtractionExhausted) {
		t.Fatalf("err = %v", err)
	}
	if len(f.calls) != 1 || f.calls[0] != "https://example.com/print/1" {
		t.Errorf("fetch calls = %v", f.calls)
	}
}

func TestPrintVersionFetchFailure(t *testing.T) {
	f := &stubFetcher{}
	html := `<html><body><a href="https://other.example.com/print">print</a></body></html>`

	_, err := testChain(PrintVersion{Fetcher: f}).Extract(context.Background(), html, "https://example.com/r")
	if !errors.Is(err, ErrExtractionExhausted) {
		t.Fatalf("err = %v", err)
	}
	if len(f.calls) != 1 {
		t.Errorf("fetch calls = %v", f.calls)
	}
}

func TestPrintVersionSkips(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		pageURL string
		fetcher bool
	}{
		{"no link", `<a href="/about">About</a>`, "https://example.com/r", true},
		{"self link", `<a href="/r/print">Print</a>`, "https://example.com/r/print", true},
		{"no fetcher", `<a href="/print">Print</a>`, "https://example.com/r", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{}
			p := PrintVersion{}
			if tt.fetcher {
				p.Fetcher = f
			}
			page, _ := newPage(tt.html, tt.pageURL, 0)
			if _, ok := p.Extract(context.Background(), testChain(p), page); ok {
				t.Error("expected no match")
			}
			if len(f.calls) != 0 {
				t.Errorf("fetch calls = %v", f.calls)
			}
		})
	}
}
