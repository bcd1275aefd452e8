package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/madrasahweb/site/internal/platform/assets/imagecdn"
	"github.com/madrasahweb/site/internal/platform/logging"
	"github.com/madrasahweb/site/internal/services/web/platform/httpx"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

const (
	faviconSize   = 32
	iconSize      = 192
	appleIconSize = 180

	// RevalidateSecretHeader carries the webhook secret.
	RevalidateSecretHeader = "X-Revalidate-Secret"

	maxRevalidateBody = 64 << 10
)

type handlers struct {
	cfg Config
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, "ok")
}

// handleImage redirects to the CDN rendition of {ref}. Any failure serves
// an inline placeholder so pages never show a broken image.
func (h handlers) handleImage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := imagecdn.Request{
		Ref:     r.PathValue("ref"),
		Width:   queryInt(query.Get("w")),
		Height:  queryInt(query.Get("h")),
		Quality: queryInt(query.Get("q")),
		Format:  query.Get("f"),
		Fit:     query.Get("fit"),
	}
	url, err := h.cfg.Images.URL(req)
	if err != nil {
		h.cfg.Logger.DebugContext(r.Context(), "image placeholder", "ref", req.Ref, logging.Err(err))
		writePlaceholder(w, r, req.Width, req.Height)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// handleIcon redirects to the settings favicon at size, falling back to
// the bundled SVG icon.
func (h handlers) handleIcon(size int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		target := routepath.StaticFavicon
		settings, err := h.cfg.Settings.GetSiteSettings(ctx)
		switch {
		case err != nil:
			h.cfg.Logger.WarnContext(ctx, "favicon settings unavailable", logging.Err(err))
		case settings != nil && settings.Favicon.Ref() != "" && h.cfg.Images.Configured():
			url, err := h.cfg.Images.URL(imagecdn.Request{
				Ref:    settings.Favicon.Ref(),
				Width:  size,
				Height: size,
				Format: "png",
				Fit:    "crop",
			})
			if err != nil {
				h.cfg.Logger.WarnContext(ctx, "favicon url", "ref", settings.Favicon.Ref(), logging.Err(err))
				break
			}
			target = url
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
}

type revalidateRequest struct {
	Type string   `json:"_type"`
	Tags []string `json:"tags"`
}

type revalidateResponse struct {
	Revalidated bool     `json:"revalidated"`
	Tags        []string `json:"tags"`
}

// handleRevalidate is the CMS publish webhook. The document type and any
// explicit tags are invalidated together.
func (h handlers) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.checkSecret(r) {
		_ = httpx.WriteJSONError(w, http.StatusUnauthorized, "invalid revalidate secret")
		return
	}
	var body revalidateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRevalidateBody))
	if err := decoder.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "invalid revalidate payload")
		return
	}
	tags := revalidateTags(body)
	if len(tags) == 0 {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "no tags to revalidate")
		return
	}
	if h.cfg.Revalidator != nil {
		if _, err := h.cfg.Revalidator.Revalidate(ctx, tags...); err != nil {
			h.cfg.Logger.ErrorContext(ctx, "revalidate content cache", "tags", tags, logging.Err(err))
			_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "revalidation failed")
			return
		}
	}
	w.Header().Set("Cache-Control", "no-store")
	_ = httpx.WriteJSON(w, http.StatusOK, revalidateResponse{Revalidated: true, Tags: tags})
}

func (h handlers) checkSecret(r *http.Request) bool {
	if h.cfg.RevalidateSecret == "" {
		return false
	}
	candidate := strings.TrimSpace(r.Header.Get(RevalidateSecretHeader))
	if candidate == "" {
		candidate = strings.TrimSpace(r.URL.Query().Get(routepath.SecretQuery))
	}
	if candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.cfg.RevalidateSecret)) == 1
}

func (h handlers) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSONError(w, http.StatusNotFound, "not found")
}

// revalidateTags merges the document type into the explicit tags, dropping
// blanks and duplicates while keeping first-seen order.
func revalidateTags(body revalidateRequest) []string {
	tags := make([]string, 0, len(body.Tags)+1)
	for _, tag := range append([]string{body.Type}, body.Tags...) {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func writePlaceholder(w http.ResponseWriter, r *http.Request, width, height int) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(w, imagecdn.PlaceholderSVG(width, height))
}

func queryInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
