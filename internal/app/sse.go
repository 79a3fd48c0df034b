package app

import (
	"log/slog"
	"strconv"
	"sync"
)

type SSEEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventSurplusCreated   = "surplus:created"
	EventSurplusClaimed   = "surplus:claimed"
	EventClaimConfirmed   = "surplus:claim-confirmed"
	EventProductionLogged = "production:logged"
)

type SSEHub struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[chan SSEEvent]struct{} // topic -> set(ch)
}

func NewSSEHub(logger *slog.Logger) *SSEHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &SSEHub{
		log:  logger,
		subs: map[string]map[chan SSEEvent]struct{}{},
	}
}

// Subscribe registers a channel on every topic. The returned cancel func
// unregisters and closes it; call it exactly once.
func (h *SSEHub) Subscribe(topics []string, buf int) (<-chan SSEEvent, func()) {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan SSEEvent, buf)

	h.mu.Lock()
	for _, t := range topics {
		if h.subs[t] == nil {
			h.subs[t] = map[chan SSEEvent]struct{}{}
		}
		h.subs[t][ch] = struct{}{}
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		for _, t := range topics {
			if set, ok := h.subs[t]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, t)
				}
			}
		}
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

func (h *SSEHub) Broadcast(topic string, ev SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for ch := range h.subs[topic] {
		select {
		case ch <- ev:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.log.Debug("sse: dropped event for slow subscribers", "topic", topic, "type", ev.Type, "dropped", dropped)
	}
}

// Subscribers reports how many channels listen on topic.
func (h *SSEHub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

/* ---- topic helpers ---- */

func TopicUser(userID int64) string { return "user:" + strconv.FormatInt(userID, 10) }
func TopicRole(role string) string  { return "role:" + role }
func TopicSurplus() string          { return "surplus:global" }

func (h *SSEHub) BroadcastUser(userID int64, ev SSEEvent) { h.Broadcast(TopicUser(userID), ev) }
func (h *SSEHub) BroadcastRole(role string, ev SSEEvent)  { h.Broadcast(TopicRole(role), ev) }
func (h *SSEHub) BroadcastSurplus(ev SSEEvent)            { h.Broadcast(TopicSurplus(), ev) }
