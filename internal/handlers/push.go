package handlers

import (
	"net/http"

	"foodiq-go/internal/app"
)

func (s *Server) PushPublicKeyGet(w http.ResponseWriter, r *http.Request) {
	if !s.App.Push().Enabled() {
		app.WriteError(w, http.StatusNotFound, "push notifications are disabled")
		return
	}
	app.WriteJSON(w, http.StatusOK, map[string]string{"public_key": s.App.Push().PublicKey()})
}

func (s *Server) PushSubscribePost(w http.ResponseWriter, r *http.Request) {
	u := s.App.CurrentUser(r)
	if u == nil {
		app.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var in app.PushSubscribeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := s.App.SubscribePush(r.Context(), u.ID, in); err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, map[string]string{"message": "Subscribed"})
}
