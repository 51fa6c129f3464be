package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/adapters/metrics"
	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/pkg/logger"
)

// Subscriber is one live receiver of canvas events. Send must not block on
// the network.
type Subscriber interface {
	ID() string
	Send(frame []byte) error
	Close()
}

type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans events out to every connected subscriber.
type Hub struct {
	mu   sync.Mutex
	subs map[string]Subscriber

	// pass serializes Broadcast calls so every subscriber sees events in call order.
	pass sync.Mutex

	logger logger.Logger
}

var _ service.Broadcaster = (*Hub)(nil)

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]Subscriber),
		logger: log.With(zap.String("component", "realtime-hub")),
	}
}

// Connect registers s. Connecting the same handle again is a no-op; a
// different handle under an existing ID replaces and closes the old one.
func (h *Hub) Connect(s Subscriber) {
	h.mu.Lock()
	prev, exists := h.subs[s.ID()]
	if exists && prev == s {
		h.mu.Unlock()
		return
	}
	h.subs[s.ID()] = s
	n := len(h.subs)
	h.mu.Unlock()

	if exists {
		prev.Close()
		h.logger.Warn("subscriber replaced", zap.String("subscriber_id", s.ID()))
	} else {
		metrics.Subscribers.Inc()
	}
	h.logger.Info("subscriber connected", zap.String("subscriber_id", s.ID()), zap.Int("subscribers", n))
}

// Disconnect is safe to call more than once for the same subscriber.
func (h *Hub) Disconnect(s Subscriber) {
	h.mu.Lock()
	cur, ok := h.subs[s.ID()]
	removed := ok && cur == s
	if removed {
		delete(h.subs, s.ID())
	}
	n := len(h.subs)
	h.mu.Unlock()

	if !removed {
		return
	}
	s.Close()
	metrics.Subscribers.Dec()
	h.logger.Info("subscriber disconnected", zap.String("subscriber_id", s.ID()), zap.Int("subscribers", n))
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) snapshot() []Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s)
	}
	return out
}

// Broadcast serializes {event, data} once and hands it to every subscriber.
// Subscribers that fail to accept it are dropped after the pass.
func (h *Hub) Broadcast(event string, payload any) {
	raw, err := json.Marshal(frame{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("failed to encode event", err, zap.String("event", event))
		return
	}

	h.pass.Lock()
	subs := h.snapshot()
	var failed []Subscriber
	for _, s := range subs {
		if err := s.Send(raw); err != nil {
			h.logger.Warn("delivery failed, dropping subscriber",
				zap.String("subscriber_id", s.ID()),
				zap.String("event", event),
				zap.Error(err),
			)
			failed = append(failed, s)
		}
	}
	h.pass.Unlock()

	if len(subs) > 0 {
		metrics.RecordBroadcast(event)
	}
	for _, s := range failed {
		metrics.DroppedSubscribersTotal.Inc()
		h.Disconnect(s)
	}
}

// Close disconnects everyone; used on shutdown.
func (h *Hub) Close() {
	for _, s := range h.snapshot() {
		h.Disconnect(s)
	}
}
