package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/JaimeStill/wayfarer/pkg/pagination"
)

func config() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 50}
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
		search   string
	}{
		{"empty", "", 1, 20, ""},
		{"explicit", "page=3&page_size=10", 3, 10, ""},
		{"clamped", "page=-2&page_size=500", 1, 50, ""},
		{"search", "search=madurai", 1, 20, "madurai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, config())

			if req.Page != tt.page || req.PageSize != tt.pageSize {
				t.Errorf("got page %d size %d", req.Page, req.PageSize)
			}

			var search string
			if req.Search != nil {
				search = *req.Search
			}
			if search != tt.search {
				t.Errorf("search: got %q", search)
			}
		})
	}
}

func TestSortFieldsJSON(t *testing.T) {
	for _, body := range []string{
		`{"sort": "Destination,-CreatedAt"}`,
		`{"sort": [{"field": "Destination"}, {"field": "CreatedAt", "descending": true}]}`,
	} {
		var req pagination.PageRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if len(req.Sort) != 2 || !req.Sort[1].Descending {
			t.Errorf("%s: got %+v", body, req.Sort)
		}
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		total, size, pages int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
	}

	for _, tt := range tests {
		res := pagination.NewPageResult[int](nil, tt.total, 1, tt.size)
		if res.TotalPages != tt.pages {
			t.Errorf("total %d size %d: got %d pages, want %d", tt.total, tt.size, res.TotalPages, tt.pages)
		}
		if res.Data == nil {
			t.Error("data must not be nil")
		}
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "5")

	var c pagination.Config
	if err := c.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if c.DefaultPageSize != 5 || c.MaxPageSize != 100 {
		t.Errorf("got %+v", c)
	}

	fromFile := pagination.Config{DefaultPageSize: 10}
	if err := fromFile.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if fromFile.DefaultPageSize != 10 {
		t.Errorf("file value overridden: got %d", fromFile.DefaultPageSize)
	}

	t.Setenv("TEST_MAX_PAGE_SIZE", "lots")
	var malformed pagination.Config
	if err := malformed.Finalize(&pagination.ConfigEnv{MaxPageSize: "TEST_MAX_PAGE_SIZE"}); err == nil {
		t.Error("expected error for malformed max page size")
	}

	bad := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error when default exceeds max")
	}
}
