package handlers

import (
	"net/http"

	"foodiq-go/internal/app"
)

func (s *Server) SurplusBroadcastPost(w http.ResponseWriter, r *http.Request) {
	var in app.BroadcastInput
	if !decodeJSON(w, r, &in) {
		return
	}
	id, err := s.App.BroadcastSurplus(r.Context(), in)
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Broadcast created"})
}

func (s *Server) SurplusActiveGet(w http.ResponseWriter, r *http.Request) {
	list, err := s.App.ListActiveSurplus(r.Context())
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) SurplusClaimPost(w http.ResponseWriter, r *http.Request) {
	u := s.App.CurrentUser(r)
	if u == nil {
		app.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := parseIDParam(r, "id")
	if !ok {
		app.WriteError(w, http.StatusBadRequest, "Broadcast not available")
		return
	}
	if err := s.App.ClaimSurplus(r.Context(), id, u.ID); err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, map[string]any{"message": "Surplus claimed successfully"})
}
