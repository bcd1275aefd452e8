package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/madrasahweb/site/internal/services/web/locale"
	module "github.com/madrasahweb/site/internal/services/web/module"
	"github.com/madrasahweb/site/internal/services/web/platform/httpx"
	"github.com/madrasahweb/site/internal/services/web/platform/weberror"
	"github.com/madrasahweb/site/internal/services/web/preview"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildRootHandlerAddsRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	h, err := BuildRootHandler(HandlerConfig{
		Modules: []module.Module{stubModule{id: "site", mount: module.Mount{Prefix: "/", Handler: http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = httpx.RequestIDFromContext(r.Context())
		})}}},
		Logger: discardLogger(),
	})
	if err != nil {
		t.Fatalf("BuildRootHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/english/", nil))
	if seen == "" || rr.Header().Get(httpx.RequestIDHeader) != seen {
		t.Fatalf("request id = %q, header = %q", seen, rr.Header().Get(httpx.RequestIDHeader))
	}
}

func TestBuildRootHandlerRendersPanicPage(t *testing.T) {
	t.Parallel()

	h, err := BuildRootHandler(HandlerConfig{
		Modules: []module.Module{stubModule{id: "site", mount: module.Mount{Prefix: "/", Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("template exploded")
		})}}},
		Logger: discardLogger(),
	})
	if err != nil {
		t.Fatalf("BuildRootHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/bengali/about", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `<html lang="bn">`) || !strings.Contains(body, "কিছু একটা সমস্যা হয়েছে") {
		t.Fatalf("panic page = %s", body)
	}
	if strings.Contains(body, "template exploded") {
		t.Fatal("panic details leaked without ShowErrorDetails")
	}
}

func TestBuildRootHandlerShowsPanicDetailsInDevelopment(t *testing.T) {
	t.Parallel()

	h, err := BuildRootHandler(HandlerConfig{
		Modules: []module.Module{stubModule{id: "site", mount: module.Mount{Prefix: "/", Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("template exploded")
		})}}},
		ShowErrorDetails: true,
		Logger:           discardLogger(),
	})
	if err != nil {
		t.Fatalf("BuildRootHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/english/", nil))
	if body := rr.Body.String(); !strings.Contains(body, "panic: template exploded") || !strings.Contains(body, "error-stack") {
		t.Fatalf("panic page = %s", body)
	}
}

func TestBuildRootHandlerMarksPreviewRequests(t *testing.T) {
	t.Parallel()

	manager := preview.NewManager(preview.Config{Secret: "draft"})
	token, _, err := manager.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	var previewing bool
	h, err := BuildRootHandler(HandlerConfig{
		Modules: []module.Module{stubModule{id: "site", mount: module.Mount{Prefix: "/", Handler: http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			previewing = preview.Enabled(r.Context())
		})}}},
		Preview: manager,
		Logger:  discardLogger(),
	})
	if err != nil {
		t.Fatalf("BuildRootHandler() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/english/", nil)
	req.AddCookie(&http.Cookie{Name: preview.CookieName, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !previewing {
		t.Fatal("preview cookie not honored")
	}
}

func TestBuildRootHandlerPropagatesComposeErrors(t *testing.T) {
	t.Parallel()

	_, err := BuildRootHandler(HandlerConfig{Modules: []module.Module{nil}})
	if err == nil {
		t.Fatal("expected compose error")
	}
}

func TestPanicPageFallsBackToDefaultLocale(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	panicPage(weberror.Renderer{})(rr, httptest.NewRequest(http.MethodGet, "/static/missing.css", nil), io.ErrUnexpectedEOF)
	if !strings.Contains(rr.Body.String(), `<html lang="`+locale.Default.HTMLLang()+`">`) {
		t.Fatalf("panic page = %s", rr.Body.String())
	}
}

func TestServerShutsDownOnContextCancel(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := NewServer(listener.Addr().String(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/")
	if err != nil {
		cancel()
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNilServer(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
}

