package food

import (
	"FoodShare-Backend/domain"
	"strings"
)

// FilterItems keeps items whose name or pickup location contains the search
// term, ignoring case, and whose type equals the type filter unless it is
// empty or "all". Order is preserved.
func FilterItems(items []domain.FoodItemResponse, filter domain.FoodItemFilter) []domain.FoodItemResponse {
	term := strings.ToLower(filter.Search)
	filterType := filter.Type
	if filterType == domain.FilterAllTypes {
		filterType = ""
	}

	filtered := make([]domain.FoodItemResponse, 0, len(items))
	for _, item := range items {
		if term != "" &&
			!strings.Contains(strings.ToLower(item.FoodName), term) &&
			!strings.Contains(strings.ToLower(item.PickupLocation), term) {
			continue
		}
		if filterType != "" && string(item.FoodType) != filterType {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
