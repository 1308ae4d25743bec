package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/database"
	"github.com/RichWangombe/bookmarkr-platform/app/recommend"
)

type stubNews struct{}

func (s *stubNews) GetAllNews(ctx context.Context) []content.Item {
	return []content.Item{{ID: "1", Title: "Story", URL: "https://example.com/1", Category: content.CategoryNews}}
}

func (s *stubNews) GetNewsByCategory(ctx context.Context, category content.Category) []content.Item {
	return []content.Item{{ID: "c", Title: "Category story", Category: category}}
}

func (s *stubNews) GetTrending(ctx context.Context, limit int) []content.Item {
	return s.GetAllNews(ctx)
}

func (s *stubNews) Stats() map[string]interface{} {
	return map[string]interface{}{"sources": 1}
}

type stubRecommender struct{}

func (s *stubRecommender) Personalized(ctx context.Context, limit int) []recommend.Recommendation {
	return []recommend.Recommendation{}
}

func (s *stubRecommender) Similar(ctx context.Context, bookmarkID int64, limit int) ([]recommend.Recommendation, error) {
	if bookmarkID != 1 {
		return nil, recommend.ErrBookmarkNotFound
	}
	return []recommend.Recommendation{}, nil
}

func (s *stubRecommender) Topic(ctx context.Context, topic string, limit int) []recommend.Recommendation {
	return []recommend.Recommendation{}
}

func (s *stubRecommender) Discover(ctx context.Context, limit int) []recommend.Recommendation {
	return []recommend.Recommendation{}
}

type stubBookmarks struct{}

func (s *stubBookmarks) GetAllBookmarks() ([]database.BookmarkWithTags, error) { return nil, nil }
func (s *stubBookmarks) GetBookmarkByID(id int64) (*database.BookmarkWithTags, error) {
	return nil, nil
}
func (s *stubBookmarks) GetBookmarkCount() (int, error) { return 0, nil }

func testServer(apiAccessKey string) http.Handler {
	handler := NewHandler(&stubNews{}, &stubRecommender{}, &stubBookmarks{}, 10)
	return NewServer(handler, apiAccessKey)
}

func get(t *testing.T, server http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestGetNews(t *testing.T) {
	w := get(t, testServer(""), "/news", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["total"].(float64) != 1 {
		t.Errorf("Expected total 1, got %v", body["total"])
	}
}

func TestGetTrending_InvalidLimit(t *testing.T) {
	for _, limit := range []string{"abc", "0", "-5", "1000"} {
		w := get(t, testServer(""), "/news/trending?limit="+limit, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for limit %q, got %d", limit, w.Code)
		}
	}
}

func TestGetNewsByCategory(t *testing.T) {
	w := get(t, testServer(""), "/news/category/science", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for known category, got %d", w.Code)
	}

	w = get(t, testServer(""), "/news/category/gardening", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown category, got %d", w.Code)
	}
}

func TestGetSimilar_BoundaryValidation(t *testing.T) {
	server := testServer("")

	if w := get(t, server, "/recommendations/similar/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", w.Code)
	}
	if w := get(t, server, "/recommendations/similar/999", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown bookmark, got %d", w.Code)
	}
	if w := get(t, server, "/recommendations/similar/1", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 for known bookmark, got %d", w.Code)
	}
}

func TestRecommendations_Authentication(t *testing.T) {
	server := testServer("secret")

	if w := get(t, server, "/recommendations/discover", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", w.Code)
	}
	if w := get(t, server, "/recommendations/discover", map[string]string{"X-API-Key": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", w.Code)
	}
	if w := get(t, server, "/recommendations/discover", map[string]string{"X-API-Key": "secret"}); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid key, got %d", w.Code)
	}
	if w := get(t, server, "/recommendations/discover", map[string]string{"Authorization": "Bearer secret"}); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with bearer token, got %d", w.Code)
	}

	// News endpoints stay public.
	if w := get(t, server, "/news", nil); w.Code != http.StatusOK {
		t.Errorf("Expected public news endpoint, got %d", w.Code)
	}
}

func TestHealthAndStats(t *testing.T) {
	server := testServer("")

	if w := get(t, server, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", w.Code)
	}
	if w := get(t, server, "/stats", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /stats, got %d", w.Code)
	}
}
