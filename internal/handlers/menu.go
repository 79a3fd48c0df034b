package handlers

import (
	"net/http"

	"foodiq-go/internal/app"
)

func (s *Server) MenuGet(w http.ResponseWriter, r *http.Request) {
	items, err := s.App.ListMenu(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) MenuCreatePost(w http.ResponseWriter, r *http.Request) {
	var in app.AddMenuItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	id, err := s.App.AddMenuItem(r.Context(), in)
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Menu item added"})
}

func (s *Server) MenuActivePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		app.WriteError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}
	var in app.SetMenuItemActiveInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := s.App.SetMenuItemActive(r.Context(), id, in); err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, map[string]any{"message": "Menu item updated"})
}
