package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"

	TableFoodItems = "food_items"
)

// ChangeEvent signals that a row changed. Views use it only as a refresh
// trigger and never read item data from it.
type ChangeEvent struct {
	Type    ChangeType `json:"type"`
	Table   string     `json:"table"`
	ItemID  string     `json:"item_id"`
	DonorID string     `json:"donor_id"`
	At      time.Time  `json:"at"`
}

type Predicate func(ev ChangeEvent) bool

// All matches every change to any row.
func All(ChangeEvent) bool { return true }

// ByDonor matches changes to rows owned by donorID.
func ByDonor(donorID string) Predicate {
	return func(ev ChangeEvent) bool {
		return ev.DonorID == donorID
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

func encodeEvent(ev ChangeEvent) ([]byte, error) {
	return json.Marshal(ev)
}

func decodeEvent(body []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}
	if ev.Type == "" || ev.Table == "" {
		return ChangeEvent{}, fmt.Errorf("decode change event: missing type or table")
	}
	return ev, nil
}
