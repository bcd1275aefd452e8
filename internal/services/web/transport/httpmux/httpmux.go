// Package httpmux wires shared routes into the root mux.
package httpmux

import (
	"io/fs"
	"net/http"

	"github.com/madrasahweb/site/internal/services/web/routepath"
)

// StaticCacheControl is sent with embedded assets.
const StaticCacheControl = "public, max-age=86400"

// MountStatic wires the shared static route into the root mux.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS, withStaticMime func(http.Handler) http.Handler) {
	if rootMux == nil || staticFS == nil {
		return
	}
	staticHandler := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	if withStaticMime != nil {
		staticHandler = withStaticMime(staticHandler)
	}
	rootMux.Handle(routepath.StaticPrefix, withCacheControl(staticHandler))
}

func withCacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", StaticCacheControl)
		next.ServeHTTP(w, r)
	})
}
