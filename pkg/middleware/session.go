package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKeyType string

const sessionIDKey contextKeyType = "session_id"

// SessionCookieName is the cookie that carries the anonymous storefront
// session identifier.
const SessionCookieName = "eplay_session"

// SessionConfig controls how the session cookie is issued.
type SessionConfig struct {
	// TTL is the cookie lifetime. 0 means a session cookie (no Max-Age).
	TTL time.Duration

	// Secure marks the cookie as HTTPS-only.
	Secure bool
}

// Session middleware resolves the caller's session identifier from the
// eplay_session cookie, issuing a new UUID cookie when none is present or the
// value is not a valid UUID. The session ID is stored in the request context
// and can be read with SessionIDFromContext.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string

			if c, err := r.Cookie(SessionCookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					sessionID = c.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.New().String()
				cookie := &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				}
				if cfg.TTL > 0 {
					cookie.MaxAge = int(cfg.TTL.Seconds())
				}
				http.SetCookie(w, cookie)
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}
