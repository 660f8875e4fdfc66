package recipe

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"recipe-importer/internal/core/ingredient"
)

func TestSourceName(t *testing.T) {
	tests := map[string]string{
		"https://www.example.com/recipes/1": "example.com",
		"http://cooking.nytimes.com/x":      "cooking.nytimes.com",
		"https://WWW.Example.org":           "example.org",
		"not a url":                         UnknownSource,
		"":                                  UnknownSource,
		"://broken":                         UnknownSource,
	}
	for in, want := range tests {
		if got := SourceName(in); got != want {
			t.Errorf("SourceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtracted(t *testing.T) {
	r := &Recipe{Title: "Soup"}
	if r.Extracted() {
		t.Fatal("title only should not count as extracted")
	}
	r.Ingredients = ingredient.ParseLines([]string{"1 onion"})
	if r.Extracted() {
		t.Fatal("no steps should not count as extracted")
	}
	r.Steps = []string{"Chop the onion and simmer."}
	if !r.Extracted() {
		t.Fatal("expected extracted")
	}
	var nilRecipe *Recipe
	if nilRecipe.Extracted() {
		t.Fatal("nil recipe should not count as extracted")
	}
}

func TestStampAndTouch(t *testing.T) {
	created := time.UnixMilli(1700000000000)
	r := &Recipe{}
	r.Stamp("abc", "https://www.example.com/r", created)
	if r.ID != "abc" || r.SourceName != "example.com" || r.SourceURL != "https://www.example.com/r" {
		t.Fatalf("stamp = %+v", r)
	}
	if r.CreatedAt != 1700000000000 || r.UpdatedAt != r.CreatedAt {
		t.Fatalf("timestamps = %d/%d", r.CreatedAt, r.UpdatedAt)
	}
	r.Touch(created.Add(time.Minute))
	if r.UpdatedAt != 1700000060000 || r.CreatedAt != 1700000000000 {
		t.Fatalf("touch = %d/%d", r.CreatedAt, r.UpdatedAt)
	}
}

func TestEnsureTitle(t *testing.T) {
	r := &Recipe{}
	r.EnsureTitle("  Page Title ")
	if r.Title != "Page Title" {
		t.Errorf("title = %q", r.Title)
	}

	r = &Recipe{}
	r.EnsureTitle("")
	if r.Title != UntitledRecipe {
		t.Errorf("title = %q", r.Title)
	}

	r = &Recipe{Title: "Kept"}
	r.EnsureTitle("Other")
	if r.Title != "Kept" {
		t.Errorf("title = %q", r.Title)
	}
}

func TestJSONShape(t *testing.T) {
	r := Recipe{
		ID:          "id-1",
		Title:       "Bread",
		SourceURL:   "https://example.com",
		SourceName:  "example.com",
		Times:       NewTimes(10, 0, 40),
		Ingredients: ingredient.ParseLines([]string{"2 cups flour"}),
		Steps:       []string{"Knead the dough for ten minutes."},
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, key := range []string{`"sourceUrl"`, `"sourceName"`, `"createdAt"`, `"updatedAt"`, `"amountDisplay":"2"`, `"prep":10`, `"total":40`} {
		if !strings.Contains(out, key) {
			t.Errorf("missing %s in %s", key, out)
		}
	}
	for _, key := range []string{`"cook"`, `"servings"`, `"tips"`, `"author"`} {
		if strings.Contains(out, key) {
			t.Errorf("unexpected %s in %s", key, out)
		}
	}
	if NewTimes(0, 0, 0) != nil {
		t.Error("NewTimes with zeros should be nil")
	}
}
