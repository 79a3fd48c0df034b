package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"foodiq-go/internal/app"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type Server struct {
	App *app.App
}

// decodeJSON fills v from the request body. An empty body leaves v untouched
// so validation reports the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	app.WriteError(w, http.StatusBadRequest, "invalid JSON body")
	return false
}

func parseIDParam(r *http.Request, key string) (int64, bool) {
	v := strings.TrimSpace(chi.URLParam(r, key))
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.App.Store().Ping(r.Context()); err != nil {
		http.Error(w, "db not ok", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
