package handlers

import (
	"FoodShare-Backend/domain"
	"bufio"
	"encoding/json"
	"fmt"
)

type sseSink struct {
	w *bufio.Writer
}

func newSSESink(w *bufio.Writer) *sseSink {
	return &sseSink{w: w}
}

func (s *sseSink) Snapshot(v any) error {
	return s.event("snapshot", v)
}

// Error reports a failed refresh; the stream stays open.
func (s *sseSink) Error(err error) error {
	return s.event("error", map[string]string{
		"message": domain.MessageFailedGetFoodItems,
		"error":   err.Error(),
	})
}

func (s *sseSink) Heartbeat() error {
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *sseSink) event(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return s.w.Flush()
}
