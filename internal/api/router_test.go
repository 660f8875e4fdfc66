package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-importer/internal/api/handlers/health"
	"recipe-importer/internal/core/extract"
	"recipe-importer/internal/core/fetch"
	"recipe-importer/internal/core/importer"
	"recipe-importer/internal/core/session"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/infrastructure/storage"

	"github.com/gin-gonic/gin"
)

const breadPage = `<html><head><title>Bread</title><script type="application/ld+json">
{"@type":"Recipe","name":"Simple Bread","recipeIngredient":["2 cups flour","1 cup water"],
 "recipeInstructions":["Mix the flour and water together.","Bake for forty minutes."]}
</script></head></html>`

type mapFetcher map[string]string

func (f mapFetcher) Fetch(_ context.Context, pageURL string) (string, error) {
	html, ok := f[pageURL]
	if !ok {
		return "", &fetch.FetchError{URL: pageURL, Err: errors.New("connection refused")}
	}
	return html, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Version: "test"},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		RateLimit:   config.RateLimitConfig{Enabled: false},
		DedupWindow: time.Second,
	}
}

type testServer struct {
	router *gin.Engine
	store  *storage.RecipeStore
}

func newTestServer(t *testing.T, cfg *config.Config, withLibrary bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fetcher := mapFetcher{
		"https://example.com/bread":         breadPage,
		"https://example.com/nothing":       "<html><body><p>Just a blog post.</p></body></html>",
		"https://example.com/nothing?again": "<html><body><p>Just a blog post.</p></body></html>",
	}
	chain := extract.NewChain([]extract.Strategy{extract.JSONLD{}, extract.Microdata{}})

	deps := Dependencies{}
	ts := &testServer{}
	var saver importer.Saver
	if withLibrary {
		store, err := storage.Open(":memory:")
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		ts.store = store
		saver = store
		deps.Library = store
		deps.Checks = map[string]health.Pinger{"storage": store}
	}

	svc := importer.NewService(fetcher, chain, saver)
	queue := importer.NewQueue(svc, config.QueueConfig{Workers: 2, MaxSize: 8})
	t.Cleanup(queue.Close)

	sessionStore := session.NewMemoryStore(0)
	t.Cleanup(func() { sessionStore.Close() })

	deps.Importer = queue
	deps.Extractor = svc
	deps.Queue = queue
	deps.Sessions = session.NewManager(sessionStore, config.SessionConfig{TTL: 72 * time.Hour, ExtendBy: 48 * time.Hour})

	ts.router = SetupRouter(cfg, deps)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w, out
}

func TestImportAndLibrary(t *testing.T) {
	ts := newTestServer(t, testConfig(), true)

	w, body := ts.do(t, http.MethodPost, "/api/import", gin.H{"url": "https://example.com/bread"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	rec := body["recipe"].(map[string]interface{})
	if body["success"] != true || rec["title"] != "Simple Bread" || rec["sourceName"] != "example.com" {
		t.Errorf("body = %v", body)
	}
	id := rec["id"].(string)

	w, body = ts.do(t, http.MethodGet, "/api/recipes", nil)
	if w.Code != http.StatusOK || body["total"] != float64(1) {
		t.Errorf("list = %d %v", w.Code, body)
	}

	w, body = ts.do(t, http.MethodGet, "/api/recipes?q=bread", nil)
	if w.Code != http.StatusOK || body["total"] != float64(1) {
		t.Errorf("search = %d %v", w.Code, body)
	}

	w, body = ts.do(t, http.MethodGet, "/api/recipes/"+id+"/scaled?multiplier=2&showGrams=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("scaled status = %d", w.Code)
	}
	first := body["ingredients"].([]interface{})[0].(map[string]interface{})
	if first["scaledAmountDisplay"] != "4" || first["gramsDisplay"] != "500g" || first["amountDisplay"] != "2" {
		t.Errorf("scaled ingredient = %v", first)
	}

	if w, _ := ts.do(t, http.MethodGet, "/api/recipes/"+id+"/scaled?multiplier=-1", nil); w.Code != http.StatusBadRequest {
		t.Errorf("negative multiplier status = %d", w.Code)
	}

	if w, _ := ts.do(t, http.MethodDelete, "/api/recipes/"+id, nil); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	if w, body := ts.do(t, http.MethodGet, "/api/recipes/"+id, nil); w.Code != http.StatusNotFound || body["success"] != false {
		t.Errorf("get deleted = %d %v", w.Code, body)
	}
}

func TestImportErrors(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"no recipe", gin.H{"url": "https://example.com/nothing"}, http.StatusUnprocessableEntity, "EXTRACTION_FAILED"},
		{"unreachable", gin.H{"url": "https://example.com/missing"}, http.StatusBadGateway, "FETCH_FAILED"},
		{"bad scheme", gin.H{"url": "file:///etc/passwd"}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing url", gin.H{}, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := ts.do(t, http.MethodPost, "/api/import", tt.body)
			if w.Code != tt.status || body["code"] != tt.code || body["success"] != false {
				t.Errorf("status = %d, body = %v", w.Code, body)
			}
		})
	}

	_, body := ts.do(t, http.MethodPost, "/api/import", gin.H{"url": "https://example.com/nothing?again"})
	if body["error"] != "Could not extract recipe from URL." {
		t.Errorf("error = %v", body["error"])
	}
}

func TestExtractEndpoint(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)

	w, body := ts.do(t, http.MethodPost, "/api/extract", gin.H{"url": "https://www.example.org/r", "html": breadPage})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	rec := body["recipe"].(map[string]interface{})
	if rec["sourceUrl"] != "https://www.example.org/r" || len(rec["steps"].([]interface{})) != 2 {
		t.Errorf("recipe = %v", rec)
	}
}

func TestDuplicateImportRejected(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	req := gin.H{"url": "https://example.com/bread"}

	if w, _ := ts.do(t, http.MethodPost, "/api/import", req); w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}
	if w, _ := ts.do(t, http.MethodPost, "/api/import", req); w.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d", w.Code)
	}
}

func TestIngredientEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)

	w, body := ts.do(t, http.MethodPost, "/api/ingredients/parse", gin.H{"lines": []string{"1 1/2 cups sugar", "", "salt to taste"}})
	if w.Code != http.StatusOK {
		t.Fatalf("parse status = %d", w.Code)
	}
	parsed := body["ingredients"].([]interface{})
	if len(parsed) != 2 || parsed[0].(map[string]interface{})["amount"] != 1.5 {
		t.Errorf("parsed = %v", parsed)
	}

	w, body = ts.do(t, http.MethodPost, "/api/ingredients/scale", gin.H{
		"lines": []string{"2 cups flour", "1 egg"}, "multiplier": 1.5, "showGrams": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("scale status = %d", w.Code)
	}
	scaled := body["ingredients"].([]interface{})
	flour := scaled[0].(map[string]interface{})
	egg := scaled[1].(map[string]interface{})
	if flour["scaledAmountDisplay"] != "3" || flour["gramsDisplay"] != "375g" {
		t.Errorf("flour = %v", flour)
	}
	if egg["scaledAmountDisplay"] != "1 1/2" {
		t.Errorf("egg = %v", egg)
	}

	if w, _ := ts.do(t, http.MethodPost, "/api/ingredients/scale", gin.H{"lines": []string{"1 egg"}, "multiplier": -1}); w.Code != http.StatusBadRequest {
		t.Errorf("negative multiplier status = %d", w.Code)
	}

	w, body = ts.do(t, http.MethodPost, "/api/ingredients/convert", gin.H{"line": "2 cups flour"})
	conv := body["conversion"].(map[string]interface{})
	if w.Code != http.StatusOK || conv["grams"] != float64(250) || conv["confidence"] != "high" || body["display"] != "250g" {
		t.Errorf("convert = %d %v", w.Code, body)
	}

	if w, _ := ts.do(t, http.MethodPost, "/api/ingredients/convert", gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty convert status = %d", w.Code)
	}

	w, body = ts.do(t, http.MethodGet, "/api/units", nil)
	if w.Code != http.StatusOK || len(body["units"].([]interface{})) == 0 || len(body["multipliers"].([]interface{})) != 10 {
		t.Errorf("units = %d %v", w.Code, body)
	}
}

func TestSessionEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig(), true)

	if w, _ := ts.do(t, http.MethodPost, "/api/sessions/unknown", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown recipe status = %d", w.Code)
	}

	_, body := ts.do(t, http.MethodPost, "/api/import", gin.H{"url": "https://example.com/bread"})
	id := body["recipe"].(map[string]interface{})["id"].(string)
	base := "/api/sessions/" + id

	w, body := ts.do(t, http.MethodPost, base, nil)
	if w.Code != http.StatusOK || body["status"] != "active" {
		t.Fatalf("start = %d %v", w.Code, body)
	}

	w, body = ts.do(t, http.MethodPost, base+"/ingredients/1/toggle", nil)
	checked := body["session"].(map[string]interface{})["checkedIngredients"].(map[string]interface{})
	if w.Code != http.StatusOK || checked["1"] != true {
		t.Errorf("toggle = %d %v", w.Code, body)
	}

	if w, _ := ts.do(t, http.MethodPost, base+"/steps/x/toggle", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad index status = %d", w.Code)
	}

	w, body = ts.do(t, http.MethodPut, base+"/multiplier", gin.H{"multiplier": 2})
	if w.Code != http.StatusOK || body["session"].(map[string]interface{})["multiplier"] != float64(2) {
		t.Errorf("multiplier = %d %v", w.Code, body)
	}

	before := body["session"].(map[string]interface{})["expiresAt"].(float64)
	w, body = ts.do(t, http.MethodPost, base+"/extend", gin.H{"by": "1h"})
	after := body["session"].(map[string]interface{})["expiresAt"].(float64)
	if w.Code != http.StatusOK || after-before != float64(time.Hour.Milliseconds()) {
		t.Errorf("extend = %d, delta = %v", w.Code, after-before)
	}

	w, body = ts.do(t, http.MethodPost, base+"/reset", nil)
	if w.Code != http.StatusOK || body["session"].(map[string]interface{})["multiplier"] != float64(1) {
		t.Errorf("reset = %d %v", w.Code, body)
	}

	if w, _ := ts.do(t, http.MethodDelete, base, nil); w.Code != http.StatusOK {
		t.Errorf("end status = %d", w.Code)
	}
	if w, _ := ts.do(t, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Errorf("get ended status = %d", w.Code)
	}
}

func TestLibraryDisabled(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	w, body := ts.do(t, http.MethodGet, "/api/recipes", nil)
	if w.Code != http.StatusServiceUnavailable || body["code"] != "STORAGE_DISABLED" {
		t.Errorf("status = %d, body = %v", w.Code, body)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}
	ts := newTestServer(t, cfg, false)

	for i := 0; i < 2; i++ {
		if w, _ := ts.do(t, http.MethodGet, "/api/units", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	w, _ := ts.do(t, http.MethodGet, "/api/units", nil)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "60" {
		t.Errorf("status = %d, retry-after = %q", w.Code, w.Header().Get("Retry-After"))
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig(), true)

	w, body := ts.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || body["version"] != "test" || body["queue"] == nil {
		t.Errorf("health = %d %v", w.Code, body)
	}
	if w, _ := ts.do(t, http.MethodGet, "/live", nil); w.Code != http.StatusOK {
		t.Errorf("live status = %d", w.Code)
	}
	if w, body := ts.do(t, http.MethodGet, "/ready", nil); w.Code != http.StatusOK || body["status"] != "ready" {
		t.Errorf("ready = %d %v", w.Code, body)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}

func TestReadyFailsWhenDependencyDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter(testConfig(), Dependencies{
		Checks: map[string]health.Pinger{"redis": failingPinger{}},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", w.Code)
	}
}
