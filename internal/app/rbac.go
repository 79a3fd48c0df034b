package app

import (
	"net/http"
)

func (a *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.CurrentUser(r) == nil {
			WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) RequireRole(role string) func(http.Handler) http.Handler {
	return a.RequireAnyRole(role)
}

func (a *App) RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	set := map[string]bool{}
	for _, r := range roles {
		set[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := a.CurrentUser(r)
			if u == nil {
				WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !set[u.Role] {
				WriteError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
