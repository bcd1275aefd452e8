// Package pagerender centralizes full-page rendering for web modules.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/madrasahweb/site/internal/services/web/platform/httpx"
	webtemplates "github.com/madrasahweb/site/internal/services/web/templates"
)

// Page describes a full-page response.
type Page struct {
	Chrome     webtemplates.Chrome
	StatusCode int
	Body       templ.Component
}

// WritePage renders page inside the shared layout. The response is buffered
// so a render failure leaves the writer untouched for error handling.
func WritePage(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = templ.NopComponent
	}

	var buf bytes.Buffer
	ctx := templ.WithChildren(httpx.RequestContext(r), body)
	if err := webtemplates.Layout(page.Chrome).Render(ctx, &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if page.Chrome.Preview {
		w.Header().Set("Cache-Control", "private, no-store")
	}
	w.WriteHeader(statusCode)
	if r != nil && r.Method == http.MethodHead {
		return nil
	}
	_, _ = w.Write(buf.Bytes())
	return nil
}
