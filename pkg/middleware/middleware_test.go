package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/wayfarer/pkg/middleware"
)

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("order: got %v", order)
	}
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://planner.local"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	}

	tests := []struct {
		name        string
		method      string
		origin      string
		wantOrigin  string
		wantHandler bool
	}{
		{"allowed origin", "GET", "http://planner.local", "http://planner.local", true},
		{"denied origin", "GET", "http://other.local", "", true},
		{"preflight", "OPTIONS", "http://planner.local", "http://planner.local", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/api/plans", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.method == "OPTIONS" {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}
			handler.ServeHTTP(rec, req)

			if rec.Header().Get("Vary") != "Origin" {
				t.Errorf("vary: got %q", rec.Header().Get("Vary"))
			}

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin: got %q, want %q", got, tt.wantOrigin)
			}
			if called != tt.wantHandler {
				t.Errorf("handler called: got %v, want %v", called, tt.wantHandler)
			}
		})
	}
}

func TestCORSDisabledPassesThrough(t *testing.T) {
	var called bool
	handler := middleware.CORS(&middleware.CORSConfig{Origins: []string{"http://planner.local"}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }),
	)

	req := httptest.NewRequest("OPTIONS", "/api/plans", nil)
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called || rec.Header().Get("Vary") != "" {
		t.Error("disabled CORS should not touch the request")
	}
}

func TestCORSConfigFinalize(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.local, ,http://b.local")

	cfg := middleware.CORSConfig{}
	err := cfg.Finalize(&middleware.CORSEnv{
		Enabled: "TEST_CORS_ENABLED",
		Origins: "TEST_CORS_ORIGINS",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled should be true")
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.local" {
		t.Errorf("origins: got %v", cfg.Origins)
	}
	if len(cfg.AllowedMethods) != 4 || cfg.MaxAge != 3600 {
		t.Errorf("defaults: got %v, %d", cfg.AllowedMethods, cfg.MaxAge)
	}
}

func TestCORSConfigFinalizeEnv(t *testing.T) {
	tests := []struct {
		name    string
		cfg     middleware.CORSConfig
		env     map[string]string
		want    []string
		maxAge  int
		wantErr bool
	}{
		{
			name:   "file origins win",
			cfg:    middleware.CORSConfig{Origins: []string{"http://file.local"}, MaxAge: 60},
			env:    map[string]string{"TEST_CORS_ORIGINS": "http://env.local", "TEST_CORS_MAX_AGE": "10"},
			want:   []string{"http://file.local"},
			maxAge: 60,
		},
		{
			name:   "env fills unset",
			env:    map[string]string{"TEST_CORS_ORIGINS": "http://env.local", "TEST_CORS_MAX_AGE": "10"},
			want:   []string{"http://env.local"},
			maxAge: 10,
		},
		{
			name:    "malformed max age",
			env:     map[string]string{"TEST_CORS_MAX_AGE": "an hour"},
			wantErr: true,
		},
		{
			name:    "malformed enabled",
			env:     map[string]string{"TEST_CORS_ENABLED": "sometimes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := tt.cfg
			err := cfg.Finalize(&middleware.CORSEnv{
				Enabled: "TEST_CORS_ENABLED",
				Origins: "TEST_CORS_ORIGINS",
				MaxAge:  "TEST_CORS_MAX_AGE",
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("finalize: %v", err)
			}
			if len(cfg.Origins) != len(tt.want) || cfg.Origins[0] != tt.want[0] {
				t.Errorf("origins: got %v, want %v", cfg.Origins, tt.want)
			}
			if cfg.MaxAge != tt.maxAge {
				t.Errorf("max age: got %d, want %d", cfg.MaxAge, tt.maxAge)
			}
		})
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/plans", nil))

	if !strings.Contains(buf.String(), "status=418") {
		t.Errorf("log: %s", buf.String())
	}
}

func TestLoggerKeepsFlusher(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	var flushable bool
	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, flushable = w.(http.Flusher)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if !flushable {
		t.Error("wrapped writer must implement http.Flusher")
	}
}

func TestRecover(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	handler := middleware.Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
}
