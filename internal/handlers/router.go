package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"foodiq-go/internal/app"
)

const requestTimeout = 60 * time.Second

func NewRouter(a *app.App) http.Handler {
	s := &Server{App: a}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(a.MiddlewareRequestLog)
	r.Use(chimw.Recoverer)
	r.Use(a.MiddlewareLoadCurrentUser)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.Health)

	r.Route("/api", func(r chi.Router) {
		// The event stream is long-lived and stays outside the request timeout.
		r.With(a.RequireAuth).Get("/surplus/events", s.SurplusEventsGet)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))

			r.Post("/auth/register", s.RegisterPost)
			r.Post("/auth/login", s.LoginPost)
			r.With(a.RequireAuth).Get("/auth/me", s.MeGet)

			r.Get("/menu", s.MenuGet)
			r.Get("/surplus/active", s.SurplusActiveGet)
			r.Get("/push/vapid-public-key", s.PushPublicKeyGet)

			r.Group(func(r chi.Router) {
				r.Use(a.RequireAuth)
				r.Get("/stats/overall", s.StatsOverallGet)
				r.Get("/stats/production", s.StatsProductionGet)
				r.Get("/stats/wastage-by-item", s.StatsWastageGet)
				r.Get("/stats/revenue", s.StatsRevenueGet)
				r.Post("/push/subscribe", s.PushSubscribePost)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.RequireRole(app.RoleCanteen))
				r.Post("/menu", s.MenuCreatePost)
				r.Post("/menu/{id}/active", s.MenuActivePost)
				r.Post("/orders", s.OrderCreatePost)
				r.Get("/orders", s.OrdersGet)
				r.Post("/production", s.ProductionPost)
				r.Post("/surplus/broadcast", s.SurplusBroadcastPost)
			})

			r.With(a.RequireRole(app.RoleNGO)).Post("/surplus/{id}/claim", s.SurplusClaimPost)
		})
	})

	if dir := a.Config().StaticDir; dir != "" {
		mountStatic(r, dir)
	}

	return r
}

// mountStatic serves the front-end pages from dir, with "/" showing the
// login page.
func mountStatic(r chi.Router, dir string) {
	fs := http.FileServer(http.Dir(dir))
	login := filepath.Join(dir, "login.html")

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if _, err := os.Stat(login); err != nil {
			app.WriteError(w, http.StatusNotFound, "not found")
			return
		}
		http.ServeFile(w, req, login)
	})
	r.Handle("/*", fs)
}
