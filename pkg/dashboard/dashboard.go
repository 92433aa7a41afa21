// Package dashboard holds the donor and receiver view models: a snapshot of
// food items rendered as cards, plus the change-feed predicate that decides
// when the snapshot must be fetched again.
package dashboard

import (
	"FoodShare-Backend/domain"
	"FoodShare-Backend/pkg/food"
	"FoodShare-Backend/pkg/realtime"
	"context"
	"time"
)

// View is a view model bound to one session.
type View interface {
	Snapshot(ctx context.Context) (any, error)
	Predicate() realtime.Predicate
}

type Donor struct {
	foodService food.FoodService
	now         func() time.Time
}

type Receiver struct {
	foodService food.FoodService
	now         func() time.Time
}

func NewDonor(foodService food.FoodService) *Donor {
	return &Donor{foodService: foodService, now: time.Now}
}

func NewReceiver(foodService food.FoodService) *Receiver {
	return &Receiver{foodService: foodService, now: time.Now}
}

// Snapshot splits the donor's own items into available and claimed.
func (d *Donor) Snapshot(ctx context.Context, session *domain.Session) (domain.DonorDashboardResponse, error) {
	res := domain.DonorDashboardResponse{
		Available: []domain.FoodCard{},
		Claimed:   []domain.FoodCard{},
	}
	if session == nil {
		return res, nil
	}

	items, err := d.foodService.GetDonorFoodItems(ctx, session)
	if err != nil {
		return res, err
	}

	now := d.now()
	opts := domain.CardOptions{AllowDelete: true}
	for _, item := range items {
		card := food.NewCard(item, opts, now)
		if item.Claimed {
			res.Claimed = append(res.Claimed, card)
		} else {
			res.Available = append(res.Available, card)
		}
	}
	res.AvailableCount = len(res.Available)
	res.ClaimedCount = len(res.Claimed)
	return res, nil
}

// Snapshot returns every unclaimed item on the platform that passes filter.
func (r *Receiver) Snapshot(ctx context.Context, session *domain.Session, filter domain.FoodItemFilter) (domain.ReceiverDashboardResponse, error) {
	if filter.Type == "" {
		filter.Type = domain.FilterAllTypes
	}
	res := domain.ReceiverDashboardResponse{
		Items:  []domain.FoodCard{},
		Filter: filter,
	}
	if session == nil {
		return res, nil
	}

	items, err := r.foodService.GetAvailableFoodItems(ctx, session)
	if err != nil {
		return res, err
	}

	filtered := food.FilterItems(items, filter)
	res.Items = food.NewCards(filtered, domain.CardOptions{AllowClaim: true}, r.now())
	res.Count = len(res.Items)
	return res, nil
}

func (d *Donor) For(session *domain.Session) View {
	return donorView{donor: d, session: session}
}

func (r *Receiver) For(session *domain.Session, filter domain.FoodItemFilter) View {
	return receiverView{receiver: r, session: session, filter: filter}
}

type donorView struct {
	donor   *Donor
	session *domain.Session
}

func (v donorView) Snapshot(ctx context.Context) (any, error) {
	return v.donor.Snapshot(ctx, v.session)
}

// Predicate limits refreshes to changes on the donor's own items.
func (v donorView) Predicate() realtime.Predicate {
	if v.session == nil {
		return func(realtime.ChangeEvent) bool { return false }
	}
	return realtime.ByDonor(v.session.UserID)
}

type receiverView struct {
	receiver *Receiver
	session  *domain.Session
	filter   domain.FoodItemFilter
}

func (v receiverView) Snapshot(ctx context.Context) (any, error) {
	return v.receiver.Snapshot(ctx, v.session, v.filter)
}

// Predicate matches everything: any posting or claim can change what a
// receiver sees.
func (v receiverView) Predicate() realtime.Predicate {
	return realtime.All
}
