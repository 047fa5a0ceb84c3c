package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/honeynil/bankfront/internal/session"
)

const CookieName = "bankfront_session"

type ctxKey struct{}

// SessionFrom returns the session the middleware attached to ctx.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*session.Session)
	return sess, ok
}

func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// SessionMiddleware attaches a session to every request. The token comes
// from the session cookie or a Bearer header; requests without a valid one
// get a fresh anonymous session and a new cookie.
func SessionMiddleware(issuer *Issuer, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if tokenStr := tokenFrom(r); tokenStr != "" {
				claims, err := issuer.Validate(tokenStr)
				if err == nil {
					sess, err := sessions.Get(ctx, claims.SessionID)
					if err == nil {
						next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
						return
					}
					slog.Error("failed to restore session", "error", err)
					http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
					return
				}
				slog.Warn("invalid session token", "error", err)
			}

			sess, err := sessions.Create(ctx)
			if err != nil {
				slog.Error("failed to create session", "error", err)
				http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
				return
			}
			tokenStr, err := issuer.Issue(sess.ID())
			if err != nil {
				slog.Error("failed to issue session token", "error", err)
				http.Error(w, "failed to issue session", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    tokenStr,
				Path:     "/",
				MaxAge:   int(issuer.TTL().Seconds()),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}

func tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
