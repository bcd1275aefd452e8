package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/madrasahweb/site/internal/platform/timeouts"
	"github.com/madrasahweb/site/internal/services/web/locale"
	module "github.com/madrasahweb/site/internal/services/web/module"
	"github.com/madrasahweb/site/internal/services/web/platform/httpx"
	"github.com/madrasahweb/site/internal/services/web/platform/weberror"
	"github.com/madrasahweb/site/internal/services/web/preview"
	webtemplates "github.com/madrasahweb/site/internal/services/web/templates"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HandlerConfig captures the inputs for the root handler.
type HandlerConfig struct {
	Modules  []module.Module
	StaticFS fs.FS
	// Preview marks draft-mode requests; nil disables preview.
	Preview *preview.Manager
	// ShowErrorDetails renders panic details on the error page.
	ShowErrorDetails bool
	// ServiceName names the server span operation.
	ServiceName string
	Logger      *slog.Logger
}

// BuildRootHandler composes modules and wraps them with the shared
// middleware stack.
func BuildRootHandler(cfg HandlerConfig) (http.Handler, error) {
	root, err := Compose(ComposeInput{Modules: cfg.Modules, StaticFS: cfg.StaticFS})
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	manager := cfg.Preview
	if manager == nil {
		manager = preview.NewManager(preview.Config{})
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "site"
	}
	handler := httpx.Chain(root,
		httpx.RequestID(),
		httpx.AccessLog(logger),
		httpx.RecoverPanic(logger, panicPage(weberror.Renderer{ShowDetails: cfg.ShowErrorDetails})),
		manager.Middleware,
	)
	return otelhttp.NewHandler(handler, serviceName), nil
}

// panicPage renders the generic error page in the locale named by the path.
func panicPage(renderer weberror.Renderer) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		segment, _ := locale.SplitPath(r.URL.Path)
		l := locale.ResolveWithDefault(segment, locale.Default)
		renderer.WriteErrorPage(w, r, http.StatusInternalServerError, err, webtemplates.Chrome{
			Locale:      l,
			Loc:         locale.Printer(l),
			CurrentPath: r.URL.Path,
			Now:         time.Now(),
		})
	}
}

// Server hosts the site HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wraps handler in an http.Server with the shared timeouts.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		httpAddr: addr,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			IdleTimeout:       timeouts.Idle,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
	}
}

// ListenAndServe runs the HTTP server until ctx ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	listener, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx ends.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info("site listening", "addr", listener.Addr().String())
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
