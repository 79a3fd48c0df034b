package handlers

import (
	"net/http"

	"foodiq-go/internal/app"
)

func (s *Server) RegisterPost(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := s.App.Register(r.Context(), in)
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, res)
}

func (s *Server) LoginPost(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := s.App.Login(r.Context(), in)
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) MeGet(w http.ResponseWriter, r *http.Request) {
	u := s.App.CurrentUser(r)
	if u == nil {
		app.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	me, err := s.App.Profile(r.Context(), u.ID)
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, me)
}
