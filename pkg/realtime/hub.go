package realtime

import (
	"context"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"sync"
)

var (
	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foodshare_change_feed_subscribers",
		Help: "Number of open change feed subscriptions.",
	})
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodshare_change_feed_events_total",
		Help: "Change events fanned out by the hub, by change type.",
	}, []string{"type"})
)

// Hub fans change events out to in-process subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
	logger zerolog.Logger
}

// Subscription is a lifecycle-scoped handle on the change feed. Notifications
// coalesce: while one is pending, further matching events are dropped.
type Subscription struct {
	id   uint64
	hub  *Hub
	pred Predicate
	ch   chan ChangeEvent
	once sync.Once
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		logger: logger.With().Str("component", "change-feed").Logger(),
	}
}

func (h *Hub) Subscribe(pred Predicate) *Subscription {
	if pred == nil {
		pred = All
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		id:   h.nextID,
		hub:  h,
		pred: pred,
		ch:   make(chan ChangeEvent, 1),
	}
	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	h.subs[sub.id] = sub
	subscribersGauge.Inc()

	h.logger.Debug().Uint64("subscription", sub.id).Int("subscribers", len(h.subs)).Msg("subscribed")
	return sub
}

// Publish never blocks on a slow subscriber.
func (h *Hub) Publish(_ context.Context, ev ChangeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	eventsPublished.WithLabelValues(string(ev.Type)).Inc()
	delivered := 0
	for _, sub := range h.subs {
		if !sub.pred(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
			delivered++
		default:
		}
	}

	h.logger.Debug().
		Str("type", string(ev.Type)).
		Str("item_id", ev.ItemID).
		Int("delivered", delivered).
		Msg("change published")
	return nil
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close releases every subscription. Later subscriptions start closed.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[uint64]*Subscription)
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.release()
	}
}

func (s *Subscription) C() <-chan ChangeEvent {
	return s.ch
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	_, ok := s.hub.subs[s.id]
	delete(s.hub.subs, s.id)
	s.hub.mu.Unlock()

	if ok {
		s.release()
	}
}

func (s *Subscription) release() {
	s.once.Do(func() {
		close(s.ch)
		subscribersGauge.Dec()
		s.hub.logger.Debug().Uint64("subscription", s.id).Msg("unsubscribed")
	})
}
