package handlers

import (
	"net/http"

	"foodiq-go/internal/app"
)

func (s *Server) StatsOverallGet(w http.ResponseWriter, r *http.Request) {
	st, err := s.App.OverallStats(r.Context())
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, st)
}

func (s *Server) StatsProductionGet(w http.ResponseWriter, r *http.Request) {
	days, err := app.ParseDays(r.URL.Query().Get("days"))
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	rows, err := s.App.ProductionStats(r.Context(), days)
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) StatsWastageGet(w http.ResponseWriter, r *http.Request) {
	rows, err := s.App.WastageByItem(r.Context())
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) StatsRevenueGet(w http.ResponseWriter, r *http.Request) {
	st, err := s.App.RevenueStats(r.Context())
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, st)
}
