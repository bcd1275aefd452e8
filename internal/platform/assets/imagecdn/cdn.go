// Package imagecdn builds transformation URLs against the CMS image CDN.
package imagecdn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultBaseURL is the hosted image CDN.
const DefaultBaseURL = "https://cdn.sanity.io"

var (
	// ErrAssetIDRequired reports an empty image reference.
	ErrAssetIDRequired = errors.New("asset id is required")
	// ErrInvalidRef reports a reference not of the form image-<id>-<W>x<H>-<ext>.
	ErrInvalidRef = errors.New("invalid image reference")
	// ErrInvalidSize reports a negative requested dimension.
	ErrInvalidSize = errors.New("image dimensions must not be negative")
	// ErrInvalidFormat reports an unsupported output format.
	ErrInvalidFormat = errors.New("unsupported image format")
	// ErrInvalidFit reports an unsupported fit mode.
	ErrInvalidFit = errors.New("unsupported image fit")
	// ErrNotConfigured reports a builder without project or dataset.
	ErrNotConfigured = errors.New("image cdn is not configured")
)

var outputFormats = map[string]bool{"jpg": true, "pjpg": true, "png": true, "webp": true}

var fitModes = map[string]bool{"clip": true, "crop": true, "fill": true, "fillmax": true, "max": true, "scale": true, "min": true}

// Asset is a parsed image reference.
type Asset struct {
	ID     string
	Width  int
	Height int
	Format string
}

// Filename returns the CDN file name for the original asset.
func (a Asset) Filename() string {
	return fmt.Sprintf("%s-%dx%d.%s", a.ID, a.Width, a.Height, a.Format)
}

// ParseRef parses a CMS image reference such as
// "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg".
func ParseRef(ref string) (Asset, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Asset{}, ErrAssetIDRequired
	}
	rest, ok := strings.CutPrefix(ref, "image-")
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	extAt := strings.LastIndex(rest, "-")
	if extAt <= 0 {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	format := rest[extAt+1:]
	rest = rest[:extAt]
	sizeAt := strings.LastIndex(rest, "-")
	if sizeAt <= 0 {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	id := rest[:sizeAt]
	widthText, heightText, ok := strings.Cut(rest[sizeAt+1:], "x")
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	width, errW := strconv.Atoi(widthText)
	height, errH := strconv.Atoi(heightText)
	if errW != nil || errH != nil || width <= 0 || height <= 0 || format == "" || !isToken(id) || !isToken(format) {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return Asset{ID: id, Width: width, Height: height, Format: format}, nil
}

func isToken(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// Request describes one image transformation. Zero fields are omitted.
type Request struct {
	Ref     string
	Width   int
	Height  int
	Quality int
	Format  string
	Fit     string
}

// Builder resolves image references for one CMS project and dataset.
type Builder struct {
	baseURL   string
	projectID string
	dataset   string
}

// New builds a Builder. An empty baseURL uses DefaultBaseURL.
func New(baseURL, projectID, dataset string) *Builder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{
		baseURL:   baseURL,
		projectID: strings.TrimSpace(projectID),
		dataset:   strings.TrimSpace(dataset),
	}
}

// Configured reports whether the builder can produce URLs.
func (b *Builder) Configured() bool {
	return b != nil && b.projectID != "" && b.dataset != ""
}

// URL returns the transformation URL for req. Parameters appear in the
// order w, h, q, fm (or auto=format), fit.
func (b *Builder) URL(req Request) (string, error) {
	if !b.Configured() {
		return "", ErrNotConfigured
	}
	asset, err := ParseRef(req.Ref)
	if err != nil {
		return "", err
	}
	if req.Width < 0 || req.Height < 0 {
		return "", ErrInvalidSize
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "jpeg" {
		format = "jpg"
	}
	if format != "" && !outputFormats[format] {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, req.Format)
	}
	fit := strings.ToLower(strings.TrimSpace(req.Fit))
	if fit != "" && !fitModes[fit] {
		return "", fmt.Errorf("%w: %q", ErrInvalidFit, req.Fit)
	}

	params := make([]string, 0, 5)
	if req.Width > 0 {
		params = append(params, "w="+strconv.Itoa(req.Width))
	}
	if req.Height > 0 {
		params = append(params, "h="+strconv.Itoa(req.Height))
	}
	if req.Quality != 0 {
		params = append(params, "q="+strconv.Itoa(clampQuality(req.Quality)))
	}
	if format != "" {
		params = append(params, "fm="+format)
	} else {
		params = append(params, "auto=format")
	}
	if fit != "" {
		params = append(params, "fit="+fit)
	}
	return fmt.Sprintf("%s/images/%s/%s/%s?%s", b.baseURL, b.projectID, b.dataset, asset.Filename(), strings.Join(params, "&")), nil
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// PlaceholderSVG returns a neutral inline SVG of the given size, used when
// an image cannot be resolved. Non-positive sizes default to 400x300.
func PlaceholderSVG(width, height int) string {
	if width <= 0 {
		width = 400
	}
	if height <= 0 {
		height = 300
	}
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[2]d" viewBox="0 0 %[1]d %[2]d" role="img" aria-label="Image unavailable">`+
			`<rect width="100%%" height="100%%" fill="#e5e7eb"/>`+
			`<text x="50%%" y="50%%" fill="#9ca3af" font-family="sans-serif" font-size="14" text-anchor="middle" dominant-baseline="middle">%[1]d×%[2]d</text>`+
			`</svg>`,
		width, height,
	)
}
