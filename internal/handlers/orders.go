package handlers

import (
	"net/http"

	"foodiq-go/internal/app"
)

func (s *Server) OrderCreatePost(w http.ResponseWriter, r *http.Request) {
	var in app.CreateOrderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := s.App.CreateOrder(r.Context(), in)
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusCreated, res)
}

func (s *Server) OrdersGet(w http.ResponseWriter, r *http.Request) {
	orders, err := s.App.ListOrders(r.Context())
	if err != nil {
		s.App.WriteOpError(w, r, err)
		return
	}
	app.WriteJSON(w, http.StatusOK, orders)
}
