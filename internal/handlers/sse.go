package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"foodiq-go/internal/app"
)

const ssePingInterval = 25 * time.Second

// SurplusEventsGet streams surplus and role events to a signed-in user.
func (s *Server) SurplusEventsGet(w http.ResponseWriter, r *http.Request) {
	u := s.App.CurrentUser(r)
	if u == nil {
		app.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		app.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	topics := []string{
		app.TopicSurplus(),
		app.TopicUser(u.ID),
		app.TopicRole(u.Role),
	}
	ch, cancel := s.App.SSE().Subscribe(topics, 32)
	defer cancel()

	// Streams outlive the server's WriteTimeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	hello, _ := json.Marshal(map[string]any{"ok": true, "role": u.Role, "ts": time.Now().Unix()})
	fmt.Fprintf(w, "event: hello\ndata: %s\n\n", hello)
	flusher.Flush()

	keep := time.NewTicker(ssePingInterval)
	defer keep.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keep.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			b, err := json.Marshal(ev.Data)
			if err != nil {
				s.App.Logger().Warn("sse marshal failed", "type", ev.Type, "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, b)
			flusher.Flush()
		}
	}
}
