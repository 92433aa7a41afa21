package handlers

import (
	"FoodShare-Backend/domain"
	"FoodShare-Backend/internal/api/presenters"
	"FoodShare-Backend/internal/middleware"
	"FoodShare-Backend/pkg/dashboard"
	"FoodShare-Backend/pkg/food"
	"bufio"
	"context"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"time"
)

const streamHeartbeat = 25 * time.Second

type (
	FoodHandler interface {
		GetFormDefaults(c *fiber.Ctx) error
		AddFoodItem(c *fiber.Ctx) error
		UploadFoodImage(c *fiber.Ctx) error
		GetDonorFoodItems(c *fiber.Ctx) error
		GetAvailableFoodItems(c *fiber.Ctx) error
		ClaimFoodItem(c *fiber.Ctx) error
		DeleteFoodItem(c *fiber.Ctx) error
		StreamFoodItems(c *fiber.Ctx) error
	}

	foodHandler struct {
		foodService food.FoodService
		donor       *dashboard.Donor
		receiver    *dashboard.Receiver
		watcher     dashboard.Watcher
		validator   *validator.Validate
		// streams end when this context does, on server shutdown
		baseCtx context.Context
	}
)

func NewFoodHandler(
	baseCtx context.Context,
	foodService food.FoodService,
	hub dashboard.Subscriber,
	validator *validator.Validate,
) FoodHandler {
	return &foodHandler{
		foodService: foodService,
		donor:       dashboard.NewDonor(foodService),
		receiver:    dashboard.NewReceiver(foodService),
		watcher:     dashboard.Watcher{Hub: hub, Heartbeat: streamHeartbeat},
		validator:   validator,
		baseCtx:     baseCtx,
	}
}

func (h *foodHandler) GetFormDefaults(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, h.foodService.FormDefaults(), fiber.StatusOK, domain.MessageSuccessGetFormDefaults)
}

func (h *foodHandler) AddFoodItem(c *fiber.Ctx) error {
	session := middleware.SessionFrom(c)
	req := new(domain.CreateFoodItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddFoodItem, err)
	}

	res, err := h.foodService.CreateFoodItem(c.UserContext(), session, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFoodItem)
}

func (h *foodHandler) UploadFoodImage(c *fiber.Ctx) error {
	session := middleware.SessionFrom(c)
	req := new(domain.UploadFoodImageRequest)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadFoodImage, err)
	}

	res, err := h.foodService.UploadFoodImage(c.UserContext(), session, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUploadFoodImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadFoodImage)
}

func (h *foodHandler) GetDonorFoodItems(c *fiber.Ctx) error {
	res, err := h.donor.Snapshot(c.UserContext(), middleware.SessionFrom(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) GetAvailableFoodItems(c *fiber.Ctx) error {
	filter := domain.FoodItemFilter{}
	if err := c.QueryParser(&filter); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.receiver.Snapshot(c.UserContext(), middleware.SessionFrom(c), filter)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) ClaimFoodItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	res, err := h.foodService.ClaimFoodItem(c.UserContext(), middleware.SessionFrom(c), itemID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedClaimFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessClaimFoodItem)
}

func (h *foodHandler) DeleteFoodItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	if err := h.foodService.DeleteFoodItem(c.UserContext(), middleware.SessionFrom(c), itemID); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteFoodItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFoodItem)
}

// StreamFoodItems pushes the caller's dashboard as Server-Sent Events: once on
// connect and again after every relevant change.
func (h *foodHandler) StreamFoodItems(c *fiber.Ctx) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedStream, domain.ErrTokenNotFound)
	}

	var view dashboard.View
	switch session.Role {
	case domain.RoleDonor:
		view = h.donor.For(session)
	case domain.RoleReceiver:
		filter := domain.FoodItemFilter{}
		if err := c.QueryParser(&filter); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
		view = h.receiver.For(session, filter)
	default:
		return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedStream, domain.ErrUserNotAllowed)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set(fiber.HeaderTransferEncoding, "chunked")
	c.Set("X-Accel-Buffering", "no")

	baseCtx := h.baseCtx
	watcher := h.watcher
	userID := session.UserID
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(baseCtx)
		defer cancel()

		log.Debugw("food item stream opened", "user_id", userID)
		err := watcher.Watch(ctx, view, newSSESink(w))
		log.Debugw("food item stream closed", "user_id", userID, "reason", err)
	})

	return nil
}
