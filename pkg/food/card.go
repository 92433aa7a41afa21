package food

import (
	"FoodShare-Backend/domain"
	"time"
)

const expiringSoonWindow = 24 * time.Hour

var defaultFoodImages = map[domain.FoodType]string{
	domain.FoodTypeVegetarian:    "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=300&h=200&fit=crop",
	domain.FoodTypeNonVegetarian: "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=300&h=200&fit=crop",
	domain.FoodTypePackaged:      "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=300&h=200&fit=crop",
}

func DefaultImageURL(foodType domain.FoodType) string {
	return defaultFoodImages[foodType]
}

// NewCard derives the time-based flags and the actions a view may offer for
// one item. Expired or claimed items never offer a claim, and claimed items
// never offer a delete, whatever opts says.
func NewCard(item domain.FoodItemResponse, opts domain.CardOptions, now time.Time) domain.FoodCard {
	expired := item.ExpiryTime.Before(now)
	expiringSoon := item.ExpiryTime.Before(now.Add(expiringSoonWindow))

	fallback := DefaultImageURL(item.FoodType)
	display := fallback
	if item.ImageURL != nil && *item.ImageURL != "" {
		display = *item.ImageURL
	}

	status := domain.StatusAvailable
	switch {
	case item.Claimed:
		status = domain.StatusClaimed
	case expired:
		status = domain.StatusExpired
	case expiringSoon:
		status = domain.StatusExpiringSoon
	}

	return domain.FoodCard{
		FoodItemResponse: item,
		DisplayImageURL:  display,
		FallbackImageURL: fallback,
		Expired:          expired,
		ExpiringSoon:     expiringSoon,
		Status:           status,
		CanClaim:         !item.Claimed && !expired && opts.AllowClaim,
		CanDelete:        !item.Claimed && opts.AllowDelete,
	}
}

func NewCards(items []domain.FoodItemResponse, opts domain.CardOptions, now time.Time) []domain.FoodCard {
	cards := make([]domain.FoodCard, 0, len(items))
	for _, item := range items {
		cards = append(cards, NewCard(item, opts, now))
	}
	return cards
}
