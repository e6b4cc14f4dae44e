package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/nmaupu/cocktails/errors"
)

// CookieName is the browser cookie carrying the signed session id.
const CookieName = "cocktail_session"

// Manager signs session ids into cookies and resolves cookies back to
// sessions.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewManager wires a store with the signing secret.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

// Issue creates an authenticated session and sets the signed cookie on the
// response.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter) error {
	id, err := m.store.Create(ctx, Session{
		Authenticated: true,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id + "." + m.sign(id),
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Resolve returns the session behind the request cookie. Missing,
// malformed, forged and expired cookies all come back as errors.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Session{}, errors.WrapInvalid(errors.ErrUnauthorized, "session", "Resolve", "no session cookie")
	}
	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok || id == "" || sig == "" {
		return Session{}, errors.WrapInvalid(errors.ErrUnauthorized, "session", "Resolve", "malformed session cookie")
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return Session{}, errors.WrapInvalid(errors.ErrUnauthorized, "session", "Resolve", "session signature mismatch")
	}
	return m.store.Get(ctx, id)
}

// Authenticated reports whether the request carries a valid signed-in
// session.
func (m *Manager) Authenticated(ctx context.Context, r *http.Request) bool {
	s, err := m.Resolve(ctx, r)
	return err == nil && s.Authenticated
}

// Destroy deletes the server-side session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		if id, _, ok := strings.Cut(c.Value, "."); ok && id != "" {
			_ = m.store.Delete(ctx, id)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
