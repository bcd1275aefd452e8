package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	cmssqlite "github.com/madrasahweb/site/internal/services/web/cms/sqlite"
)

func seededContentPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.db")
	store, err := cmssqlite.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open content store: %v", err)
	}
	docs := []string{
		`{"_id":"siteSettings","_type":"siteSettings","title":{"english":"Darul Ilm Academy","bengali":"দারুল ইলম একাডেমি"}}`,
		`{"_id":"program-hifz","_type":"academicProgram","title":{"english":"Hifz"},"slug":{"english":{"current":"hifz"}},"order":1}`,
	}
	for _, doc := range docs {
		if err := store.Put(context.Background(), json.RawMessage(doc)); err != nil {
			t.Fatalf("put fixture: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close content store: %v", err)
	}
	return path
}

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	cfg := Config{
		HTTPAddr:         "127.0.0.1:0",
		SiteURL:          "https://example.org/",
		RevalidateSecret: "hook",
		CMSBackend:       CMSBackendSQLite,
		CMSSQLitePath:    seededContentPath(t),
		CacheBackend:     CacheBackendSQLite,
		CachePath:        filepath.Join(t.TempDir(), "cache.db"),
		Workers:          2,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	server, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(server.Close)
	return server
}

func TestServerServesSiteFromSQLite(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, nil).Handler()
	tests := []struct {
		path   string
		status int
		want   string
	}{
		{path: "/english/programs", status: http.StatusOK, want: "Hifz"},
		{path: "/english/programs/hifz", status: http.StatusOK, want: `<link rel="canonical" href="https://example.org/english/programs/hifz">`},
		{path: "/healthz", status: http.StatusOK, want: "ok"},
		{path: "/static/site.css", status: http.StatusOK, want: ":root"},
		{path: "/sitemap.xml", status: http.StatusOK, want: "https://example.org/bengali/programs/hifz"},
		{path: "/robots.txt", status: http.StatusOK, want: "Disallow: /api/"},
		{path: "/english/programs/missing", status: http.StatusNotFound, want: "Page not found"},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.status {
			t.Fatalf("%s status = %d, want %d", tc.path, rr.Code, tc.status)
		}
		if !strings.Contains(rr.Body.String(), tc.want) {
			t.Fatalf("%s body missing %q", tc.path, tc.want)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s missing request id", tc.path)
		}
	}
}

func TestServerRevalidatesCache(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, nil).Handler()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(`{"_type":"academicProgram"}`))
	req.Header.Set("X-Revalidate-Secret", "hook")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"revalidated":true`) {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
}

func TestServerFaviconFallsBackWithoutImageCDN(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, func(cfg *Config) { cfg.CacheBackend = CacheBackendNone }).Handler()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if rr.Code != http.StatusTemporaryRedirect || rr.Header().Get("Location") != "/static/favicon.svg" {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "missing addr", cfg: Config{}, want: "http address is required"},
		{name: "unknown cms", cfg: Config{HTTPAddr: ":0", CMSBackend: "wordpress"}, want: `unknown cms backend "wordpress"`},
		{name: "sanity without project", cfg: Config{HTTPAddr: ":0", CMSDataset: "production"}, want: "project id is required"},
		{name: "missing sqlite path", cfg: Config{HTTPAddr: ":0", CMSBackend: CMSBackendSQLite}, want: "open cms sqlite"},
		{name: "unknown cache", cfg: Config{HTTPAddr: ":0", CMSProjectID: "p", CMSDataset: "d", CacheBackend: "memcached"}, want: `unknown cache backend "memcached"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server, err := NewServer(context.Background(), tc.cfg)
			if err == nil {
				server.Close()
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestNilServer(t *testing.T) {
	t.Parallel()

	var server *Server
	server.Close()
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if server.Handler() == nil {
		t.Fatal("nil server handler")
	}
}
