package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"foodiq-go/internal/db"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// bearerToken reads "Authorization: Bearer <t>", falling back to the
// access_token query parameter for EventSource clients.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}

func (a *App) middlewareLoadCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := bearerToken(r); tok != "" {
			u, err := a.ResolveToken(r.Context(), tok)
			if err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxKeyUser, u))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) middlewareRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		a.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

func (a *App) CurrentUser(r *http.Request) *db.User {
	u, _ := r.Context().Value(ctxKeyUser).(*db.User)
	return u
}

// Exported wrappers so router wiring can live outside the app package (no handlers import cycle).
func (a *App) MiddlewareLoadCurrentUser(next http.Handler) http.Handler {
	return a.middlewareLoadCurrentUser(next)
}

func (a *App) MiddlewareRequestLog(next http.Handler) http.Handler {
	return a.middlewareRequestLog(next)
}
