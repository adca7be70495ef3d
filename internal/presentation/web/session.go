package web

import (
	"context"
	"net/http"

	"vibestyle/internal/application"

	"github.com/google/uuid"
)

// sessionCookieName は、ブラウザセッションを識別するクッキー名です
const sessionCookieName = "vibestyle_session"

const sessionMaxAge = 30 * 24 * 60 * 60

type sessionKey struct{}

// session は、セッションクッキーを確認し、なければ発行します
func (h *Handler) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if parsed, err := uuid.Parse(cookie.Value); err == nil {
				id = parsed.String()
			}
		}

		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				Secure:   h.options.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

// sessionID は、リクエストのセッションIDを返します
func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}

// workbench は、リクエストのセッションに対応するWorkbenchを返します
func (h *Handler) workbench(r *http.Request) *application.Workbench {
	return h.registry.Get(r.Context(), sessionID(r))
}
