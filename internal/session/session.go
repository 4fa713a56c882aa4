// Package session reads the signed session cookie that identifies the user.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/securecookie"
)

const DefaultMaxAge = 7 * 24 * time.Hour

type contextKey struct{}

// UserChecker reports whether a user id still refers to an existing user.
type UserChecker func(ctx context.Context, id int64) (bool, error)

// Manager encodes and decodes the session cookie.
type Manager struct {
	codec  *securecookie.SecureCookie
	name   string
	maxAge time.Duration
	secure bool
}

// NewManager derives the signing and encryption keys from secret.
func NewManager(secret, cookieName string, secure bool) *Manager {
	hashKey := sha256.Sum256([]byte("hash:" + secret))
	blockKey := sha256.Sum256([]byte("block:" + secret))

	codec := securecookie.New(hashKey[:], blockKey[:])
	codec.MaxAge(int(DefaultMaxAge.Seconds()))

	return &Manager{
		codec:  codec,
		name:   cookieName,
		maxAge: DefaultMaxAge,
		secure: secure,
	}
}

// Issue writes a session cookie for userID.
func (m *Manager) Issue(w http.ResponseWriter, userID int64) error {
	encoded, err := m.codec.Encode(m.name, userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserID returns the user id carried by the request's session cookie.
func (m *Manager) UserID(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(m.name)
	if err != nil {
		return 0, false
	}
	var id int64
	if err := m.codec.Decode(m.name, cookie.Value, &id); err != nil {
		return 0, false
	}
	return id, id > 0
}

// RequireUser rejects requests without a valid session for an existing user
// and puts the user id in the request context.
func (m *Manager) RequireUser(exists UserChecker, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := m.UserID(r)
			if !ok {
				unauthorized(w)
				return
			}

			found, err := exists(r.Context(), id)
			if err != nil {
				logger.Error("Session user lookup failed", "user_id", id, "error", err)
				unauthorized(w)
				return
			}
			if !found {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), id)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "authentication required"})
}

// WithUser returns a context carrying the user id.
func WithUser(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the user id stored by RequireUser.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok
}
