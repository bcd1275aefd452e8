package httpmux

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

func TestMountStaticServesStaticPrefix(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	staticFS := fstest.MapFS{
		"site.css": &fstest.MapFile{Data: []byte("body{margin:0}")},
	}
	MountStatic(rootMux, staticFS, nil)

	req := httptest.NewRequest(http.MethodGet, "/static/site.css", nil)
	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Cache-Control"); got != StaticCacheControl {
		t.Fatalf("Cache-Control = %q, want %q", got, StaticCacheControl)
	}
	if body := rec.Body.String(); body != "body{margin:0}" {
		t.Fatalf("body = %q", body)
	}
}

func TestMountStaticAppliesMimeWrapper(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	staticFS := fstest.MapFS{"favicon.svg": &fstest.MapFile{Data: []byte("<svg/>")}}
	MountStatic(rootMux, staticFS, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Wrapped", "yes")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/favicon.svg", nil))
	if rec.Header().Get("X-Wrapped") != "yes" {
		t.Fatal("mime wrapper not applied")
	}
}

func TestMountStaticNoopOnNilInputs(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	MountStatic(nil, fstest.MapFS{}, nil)
	MountStatic(rootMux, fs.FS(nil), nil)
}
