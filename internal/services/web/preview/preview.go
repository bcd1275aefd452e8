// Package preview toggles draft content viewing with a signed cookie
// guarded by a shared secret.
package preview

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/madrasahweb/site/internal/services/web/platform/errors"
	"github.com/madrasahweb/site/internal/services/web/platform/httpx"
)

const (
	// CookieName carries the signed preview token.
	CookieName = "site_preview"
	// DefaultTTL bounds a preview session.
	DefaultTTL = time.Hour

	tokenIssuer  = "site-preview"
	tokenSubject = "draft-mode"
)

var (
	// ErrNotConfigured reports a manager without a shared secret.
	ErrNotConfigured = errors.New("preview secret is not configured")
	// ErrInvalidToken reports a missing, forged or expired preview token.
	ErrInvalidToken = errors.New("preview token is invalid")
)

// Config configures a Manager.
type Config struct {
	Secret string
	TTL    time.Duration
	// Secure marks the cookie Secure; set when served over HTTPS.
	Secure bool
	Now    func() time.Time
}

// Manager issues and verifies preview cookies.
type Manager struct {
	secret     []byte
	signingKey []byte
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

// NewManager builds a Manager. An empty secret yields a manager that
// rejects every enable request.
func NewManager(cfg Config) *Manager {
	secret := strings.TrimSpace(cfg.Secret)
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	m := &Manager{ttl: ttl, secure: cfg.Secure, now: now}
	if secret != "" {
		m.secret = []byte(secret)
		mac := hmac.New(sha256.New, m.secret)
		mac.Write([]byte(CookieName))
		m.signingKey = mac.Sum(nil)
	}
	return m
}

// Configured reports whether a shared secret is set.
func (m *Manager) Configured() bool {
	return m != nil && len(m.secret) > 0
}

// CheckSecret compares candidate with the shared secret in constant time.
func (m *Manager) CheckSecret(candidate string) bool {
	if !m.Configured() || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), m.secret) == 1
}

// Issue signs a new preview token and returns it with its expiry.
func (m *Manager) Issue() (string, time.Time, error) {
	if !m.Configured() {
		return "", time.Time{}, ErrNotConfigured
	}
	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign preview token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks token's signature, issuer and expiry.
func (m *Manager) Verify(token string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(tokenSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return nil
}

// FromRequest reports whether r carries a valid preview cookie.
func (m *Manager) FromRequest(r *http.Request) bool {
	if !m.Configured() || r == nil {
		return false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return m.Verify(cookie.Value) == nil
}

// Middleware marks requests with a valid preview cookie and keeps their
// responses out of shared caches.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.FromRequest(r) {
			w.Header().Set("Cache-Control", "private, no-store")
			r = r.WithContext(WithEnabled(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}

// EnableHandler checks ?secret= and, on success, sets the preview cookie
// and redirects to ?redirect= (a same-site path, default "/").
func (m *Manager) EnableHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.CheckSecret(r.URL.Query().Get("secret")) {
			httpx.WriteError(w, apperrors.E(apperrors.KindUnauthorized, "invalid preview secret"))
			return
		}
		token, expiresAt, err := m.Issue()
		if err != nil {
			httpx.WriteError(w, apperrors.Wrap(apperrors.KindUnknown, err, "issue preview token"))
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    token,
			Path:     "/",
			Expires:  expiresAt,
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, SafeRedirect(r.URL.Query().Get("redirect")), http.StatusTemporaryRedirect)
	})
}

// DisableHandler clears the preview cookie and redirects.
func (m *Manager) DisableHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, SafeRedirect(r.URL.Query().Get("redirect")), http.StatusTemporaryRedirect)
	})
}

// SafeRedirect returns target when it is a local absolute path and "/"
// otherwise.
func SafeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "/"
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return target
}
