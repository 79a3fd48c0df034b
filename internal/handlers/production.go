package handlers

import (
	"net/http"

	"foodiq-go/internal/app"
)

func (s *Server) ProductionPost(w http.ResponseWriter, r *http.Request) {
	var in app.LogProductionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	id, err := s.App.LogProduction(r.Context(), in)
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Production logged"})
}
