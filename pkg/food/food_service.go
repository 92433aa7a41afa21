package food

import (
	"FoodShare-Backend/domain"
	"FoodShare-Backend/entities"
	"FoodShare-Backend/internal/utils/mailing"
	"FoodShare-Backend/internal/utils/storage"
	"FoodShare-Backend/pkg/realtime"
	"FoodShare-Backend/pkg/user"
	"context"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"strings"
	"time"
)

var (
	foodItemsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodshare_food_items_created_total",
		Help: "Food items posted by donors.",
	})
	foodItemsClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodshare_food_items_claimed_total",
		Help: "Food items claimed by receivers.",
	})
	foodItemsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodshare_food_items_deleted_total",
		Help: "Unclaimed food items removed by their donors.",
	})
	claimConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodshare_claim_conflicts_total",
		Help: "Claims rejected by the conditional update, by reason.",
	}, []string{"reason"})
)

type (
	FoodService interface {
		FormDefaults() domain.FoodItemForm
		CreateFoodItem(ctx context.Context, session *domain.Session, req domain.CreateFoodItemRequest) (domain.FoodItemResponse, error)
		UploadFoodImage(ctx context.Context, session *domain.Session, req domain.UploadFoodImageRequest) (domain.UploadFoodImageResponse, error)
		GetDonorFoodItems(ctx context.Context, session *domain.Session) ([]domain.FoodItemResponse, error)
		GetAvailableFoodItems(ctx context.Context, session *domain.Session) ([]domain.FoodItemResponse, error)
		ClaimFoodItem(ctx context.Context, session *domain.Session, id string) (domain.FoodItemResponse, error)
		DeleteFoodItem(ctx context.Context, session *domain.Session, id string) error
	}

	foodService struct {
		foodRepository FoodRepository
		userRepository user.UserRepository
		s3             storage.AwsS3
		mailer         mailing.Mailer
		publisher      realtime.Publisher
		now            func() time.Time
	}
)

func NewFoodService(
	foodRepository FoodRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
	publisher realtime.Publisher,
) FoodService {
	return &foodService{
		foodRepository: foodRepository,
		userRepository: userRepository,
		s3:             s3,
		mailer:         mailer,
		publisher:      publisher,
		now:            time.Now,
	}
}

func (s *foodService) FormDefaults() domain.FoodItemForm {
	return domain.NewFoodItemForm(s.now().UTC())
}

func (s *foodService) CreateFoodItem(ctx context.Context, session *domain.Session, req domain.CreateFoodItemRequest) (domain.FoodItemResponse, error) {
	if session == nil {
		return domain.FoodItemResponse{}, nil
	}
	if !session.IsDonor() {
		return domain.FoodItemResponse{}, domain.ErrUserNotAllowed
	}

	name := strings.TrimSpace(req.FoodName)
	if name == "" {
		return domain.FoodItemResponse{}, domain.ErrEmptyFoodName
	}
	location := strings.TrimSpace(req.PickupLocation)
	if location == "" {
		return domain.FoodItemResponse{}, domain.ErrEmptyPickupLocation
	}
	foodType := domain.FoodType(req.FoodType)
	if !foodType.Valid() {
		return domain.FoodItemResponse{}, domain.ErrInvalidFoodType
	}

	cooked, err := ParseFoodTime(req.CookedTime)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}
	expiry, err := ParseFoodTime(req.ExpiryTime)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}
	now := s.now()
	if err := ValidateTimes(cooked, expiry, now); err != nil {
		return domain.FoodItemResponse{}, err
	}

	donorID, err := uuid.Parse(session.UserID)
	if err != nil {
		return domain.FoodItemResponse{}, domain.ErrParseUUID
	}

	var imageURL *string
	if u := strings.TrimSpace(req.ImageURL); u != "" {
		if !s.ownsImage(session.UserID, u) {
			return domain.FoodItemResponse{}, domain.ErrImageNotOwned
		}
		imageURL = &u
	}

	foodItem := &entities.FoodItem{
		ID:             uuid.New(),
		DonorID:        donorID,
		FoodName:       name,
		FoodType:       string(foodType),
		PickupLocation: location,
		CookedTime:     cooked.UTC(),
		ExpiryTime:     expiry.UTC(),
		ImageURL:       imageURL,
	}

	if err := s.foodRepository.AddFoodItem(ctx, foodItem); err != nil {
		return domain.FoodItemResponse{}, fmt.Errorf("add food item: %w", err)
	}

	foodItemsCreated.Inc()
	s.publish(ctx, realtime.ChangeInsert, foodItem, now)

	return toResponse(foodItem), nil
}

func (s *foodService) UploadFoodImage(ctx context.Context, session *domain.Session, req domain.UploadFoodImageRequest) (domain.UploadFoodImageResponse, error) {
	if session == nil {
		return domain.UploadFoodImageResponse{}, nil
	}
	if !session.IsDonor() {
		return domain.UploadFoodImageResponse{}, domain.ErrUserNotAllowed
	}
	if s.s3 == nil {
		return domain.UploadFoodImageResponse{}, domain.ErrImageStorageDisabled
	}

	fileName := fmt.Sprintf("food-item-%s", uuid.NewString())
	objectKey, err := s.s3.UploadFile(fileName, req.Image, imageFolder(session.UserID), storage.AllowImage...)
	if err != nil {
		return domain.UploadFoodImageResponse{}, err
	}

	return domain.UploadFoodImageResponse{
		ImageURL: s.s3.GetPublicLinkKey(objectKey),
	}, nil
}

func (s *foodService) GetDonorFoodItems(ctx context.Context, session *domain.Session) ([]domain.FoodItemResponse, error) {
	if session == nil {
		return nil, nil
	}

	foodItems, err := s.foodRepository.GetFoodItemsByDonor(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get donor food items: %w", err)
	}
	return toResponses(foodItems), nil
}

func (s *foodService) GetAvailableFoodItems(ctx context.Context, session *domain.Session) ([]domain.FoodItemResponse, error) {
	if session == nil {
		return nil, nil
	}

	foodItems, err := s.foodRepository.GetUnclaimedFoodItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("get unclaimed food items: %w", err)
	}
	return toResponses(foodItems), nil
}

func (s *foodService) ClaimFoodItem(ctx context.Context, session *domain.Session, id string) (domain.FoodItemResponse, error) {
	if session == nil {
		return domain.FoodItemResponse{}, nil
	}
	if !session.IsReceiver() {
		return domain.FoodItemResponse{}, domain.ErrUserNotAllowed
	}

	if _, err := uuid.Parse(id); err != nil {
		return domain.FoodItemResponse{}, domain.ErrFoodItemNotFound
	}
	receiverID, err := uuid.Parse(session.UserID)
	if err != nil {
		return domain.FoodItemResponse{}, domain.ErrParseUUID
	}

	now := s.now()
	claimed, err := s.foodRepository.ClaimFoodItem(ctx, id, receiverID, now)
	if err != nil {
		return domain.FoodItemResponse{}, fmt.Errorf("claim food item: %w", err)
	}

	foodItem, err := s.foodRepository.GetFoodItemByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return domain.FoodItemResponse{}, domain.ErrFoodItemNotFound
		}
		return domain.FoodItemResponse{}, fmt.Errorf("get food item: %w", err)
	}

	if !claimed {
		reason := claimRejection(foodItem, now)
		claimConflicts.WithLabelValues(reason.Error()).Inc()
		return domain.FoodItemResponse{}, reason
	}

	foodItemsClaimed.Inc()
	s.publish(ctx, realtime.ChangeUpdate, foodItem, now)
	s.notifyDonor(ctx, foodItem, session)

	return toResponse(foodItem), nil
}

// claimRejection explains why the conditional claim touched no row.
func claimRejection(foodItem *entities.FoodItem, now time.Time) error {
	switch {
	case foodItem.Claimed:
		return domain.ErrFoodItemAlreadyClaimed
	case !foodItem.ExpiryTime.After(now):
		return domain.ErrFoodItemExpired
	default:
		return domain.ErrFoodItemNotFound
	}
}

func (s *foodService) DeleteFoodItem(ctx context.Context, session *domain.Session, id string) error {
	if session == nil {
		return nil
	}
	if !session.IsDonor() {
		return domain.ErrUserNotAllowed
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrFoodItemNotFound
	}

	foodItem, err := s.foodRepository.GetFoodItemByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrFoodItemNotFound
		}
		return fmt.Errorf("get food item: %w", err)
	}

	if foodItem.DonorID.String() != session.UserID {
		return domain.ErrUnauthorizedAccess
	}
	if foodItem.Claimed {
		return domain.ErrFoodItemAlreadyClaimed
	}

	deleted, err := s.foodRepository.DeleteUnclaimedFoodItem(ctx, id, session.UserID)
	if err != nil {
		return fmt.Errorf("delete food item: %w", err)
	}
	if !deleted {
		// claimed between the read and the delete
		return domain.ErrFoodItemAlreadyClaimed
	}

	if foodItem.ImageURL != nil && s.s3 != nil {
		objectKey := s.s3.GetObjectKeyFromLink(*foodItem.ImageURL)
		if strings.HasPrefix(objectKey, imageFolder(foodItem.DonorID.String())+"/") {
			if err := s.s3.DeleteFile(objectKey); err != nil {
				log.Warnw("failed to delete food image", "item_id", id, "object_key", objectKey, "error", err)
			}
		}
	}

	foodItemsDeleted.Inc()
	s.publish(ctx, realtime.ChangeDelete, foodItem, s.now())
	return nil
}

// imageFolder is the object key prefix for one donor's uploads.
func imageFolder(donorID string) string {
	return "food-items/" + donorID
}

// ownsImage reports whether link may be attached to an item of donorID:
// links outside our bucket are fine, links inside it must be the donor's own.
func (s *foodService) ownsImage(donorID, link string) bool {
	if s.s3 == nil {
		return true
	}
	objectKey := s.s3.GetObjectKeyFromLink(link)
	return objectKey == "" || strings.HasPrefix(objectKey, imageFolder(donorID)+"/")
}

func (s *foodService) publish(ctx context.Context, changeType realtime.ChangeType, foodItem *entities.FoodItem, at time.Time) {
	if s.publisher == nil {
		return
	}
	ev := realtime.ChangeEvent{
		Type:    changeType,
		Table:   realtime.TableFoodItems,
		ItemID:  foodItem.ID.String(),
		DonorID: foodItem.DonorID.String(),
		At:      at.UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Errorw("failed to publish change event", "type", changeType, "item_id", ev.ItemID, "error", err)
	}
}

func (s *foodService) notifyDonor(ctx context.Context, foodItem *entities.FoodItem, session *domain.Session) {
	if s.mailer == nil || s.userRepository == nil {
		return
	}

	donor, err := s.userRepository.GetUserByID(ctx, foodItem.DonorID.String())
	if err != nil {
		log.Warnw("claim mail skipped, donor lookup failed", "item_id", foodItem.ID.String(), "error", err)
		return
	}

	receiverName := session.FullName
	if receiverName == "" {
		if receiver, err := s.userRepository.GetUserByID(ctx, session.UserID); err == nil {
			receiverName = receiver.FullName
		}
	}

	claimedAt := s.now()
	if foodItem.ClaimedAt != nil {
		claimedAt = *foodItem.ClaimedAt
	}
	mail := mailing.NewClaimedMail(donor.FullName, receiverName, foodItem.FoodName, foodItem.PickupLocation, claimedAt)
	body, err := mail.Body()
	if err != nil {
		log.Errorw("failed to render claim mail", "item_id", foodItem.ID.String(), "error", err)
		return
	}
	if err := s.mailer.SendMail(donor.Email, mail.Subject(), body); err != nil {
		log.Warnw("failed to send claim mail", "item_id", foodItem.ID.String(), "error", err)
	}
}

func toResponse(foodItem *entities.FoodItem) domain.FoodItemResponse {
	res := domain.FoodItemResponse{
		ID:             foodItem.ID.String(),
		DonorID:        foodItem.DonorID.String(),
		FoodName:       foodItem.FoodName,
		FoodType:       domain.FoodType(foodItem.FoodType),
		PickupLocation: foodItem.PickupLocation,
		CookedTime:     foodItem.CookedTime,
		ExpiryTime:     foodItem.ExpiryTime,
		ImageURL:       foodItem.ImageURL,
		Claimed:        foodItem.Claimed,
		ClaimedAt:      foodItem.ClaimedAt,
		CreatedAt:      foodItem.CreatedAt,
	}
	if foodItem.ClaimedBy != nil {
		claimedBy := foodItem.ClaimedBy.String()
		res.ClaimedBy = &claimedBy
	}
	return res
}

func toResponses(foodItems []*entities.FoodItem) []domain.FoodItemResponse {
	response := make([]domain.FoodItemResponse, 0, len(foodItems))
	for _, item := range foodItems {
		response = append(response, toResponse(item))
	}
	return response
}
