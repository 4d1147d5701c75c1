package search_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/wayfarer/internal/search"
)

func TestSerper(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		gotKey = r.Header.Get("X-API-KEY")

		var body struct {
			Q string `json:"q"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body.Q

		json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]string{
				{"title": "Meenakshi Temple", "link": "https://example.com/1", "snippet": "Historic temple"},
				{"title": "Thirumalai Nayak Palace", "link": "https://example.com/2", "snippet": "Palace"},
				{"title": "Gandhi Museum", "link": "https://example.com/3", "snippet": "Museum"},
			},
		})
	}))
	defer srv.Close()

	s := search.NewSerper(srv.URL, "secret", 2, srv.Client())
	results, err := s.Search(context.Background(), "Madurai attractions")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotKey != "secret" {
		t.Errorf("api key: got %q", gotKey)
	}
	if gotQuery != "Madurai attractions" {
		t.Errorf("query: got %q", gotQuery)
	}
	if len(results) != 2 || results[0].Title != "Meenakshi Temple" {
		t.Errorf("results: got %+v", results)
	}
}

func TestSerperError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := search.NewSerper(srv.URL, "wrong", 5, srv.Client())
	if _, err := s.Search(context.Background(), "q"); !errors.Is(err, search.ErrSearch) {
		t.Errorf("got %v, want ErrSearch", err)
	}
}

type countingSearcher struct {
	calls int
	err   error
}

func (c *countingSearcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []search.Result{{Title: query}}, nil
}

func TestCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	next := &countingSearcher{}
	cache := search.NewCache(next, client, time.Hour, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	first, err := cache.Search(ctx, "Madurai food")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := cache.Search(ctx, "  madurai   FOOD ")
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if next.calls != 1 {
		t.Errorf("wrapped searcher calls: got %d, want 1", next.calls)
	}
	if len(second) != 1 || second[0].Title != first[0].Title {
		t.Errorf("cached results: got %+v", second)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := cache.Search(ctx, "Madurai food"); err != nil {
		t.Fatalf("after expiry: %v", err)
	}
	if next.calls != 2 {
		t.Errorf("expected refetch after ttl, calls: %d", next.calls)
	}
}

func TestCacheFallsThroughWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	next := &countingSearcher{}
	cache := search.NewCache(next, client, time.Hour, slog.New(slog.DiscardHandler))

	if err := cache.Ping(context.Background()); err == nil {
		t.Error("ping should fail with redis down")
	}

	results, err := cache.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || next.calls != 1 {
		t.Errorf("got %+v after %d calls", results, next.calls)
	}
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	next := &countingSearcher{err: search.ErrSearch}
	cache := search.NewCache(next, client, time.Hour, slog.New(slog.DiscardHandler))

	for range 2 {
		if _, err := cache.Search(context.Background(), "q"); !errors.Is(err, search.ErrSearch) {
			t.Fatalf("got %v", err)
		}
	}
	if next.calls != 2 {
		t.Errorf("calls: got %d, want 2", next.calls)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("keys stored: %v", keys)
	}
}
