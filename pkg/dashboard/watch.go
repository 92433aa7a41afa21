package dashboard

import (
	"FoodShare-Backend/pkg/realtime"
	"context"
	"time"
)

type Subscriber interface {
	Subscribe(pred realtime.Predicate) *realtime.Subscription
}

// Sink receives what a watched view produces. An error from any method ends
// the watch, which is how a vanished client is detected.
type Sink interface {
	Snapshot(v any) error
	Error(err error) error
	Heartbeat() error
}

type Watcher struct {
	Hub       Subscriber
	Heartbeat time.Duration
}

// Watch sends an initial snapshot and then a fresh one for every change
// notification matching the view, until ctx ends, the sink fails or the feed
// closes. The subscription is always released on return.
func (w Watcher) Watch(ctx context.Context, view View, sink Sink) error {
	sub := w.Hub.Subscribe(view.Predicate())
	defer sub.Close()

	refresh := func() error {
		snapshot, err := view.Snapshot(ctx)
		if err != nil {
			return sink.Error(err)
		}
		return sink.Snapshot(snapshot)
	}

	if err := refresh(); err != nil {
		return err
	}

	var heartbeat <-chan time.Time
	if w.Heartbeat > 0 {
		ticker := time.NewTicker(w.Heartbeat)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-sub.C():
			if !ok {
				return nil
			}
			if err := refresh(); err != nil {
				return err
			}
		case <-heartbeat:
			if err := sink.Heartbeat(); err != nil {
				return err
			}
		}
	}
}
