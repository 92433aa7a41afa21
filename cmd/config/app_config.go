package config

import (
	"FoodShare-Backend/domain"
	"FoodShare-Backend/internal/api/handlers"
	"FoodShare-Backend/internal/api/routes"
	"FoodShare-Backend/internal/middleware"
	"FoodShare-Backend/internal/utils"
	"FoodShare-Backend/internal/utils/mailing"
	"FoodShare-Backend/internal/utils/storage"
	"FoodShare-Backend/pkg/dashboard"
	"FoodShare-Backend/pkg/food"
	"FoodShare-Backend/pkg/jwt"
	"FoodShare-Backend/pkg/realtime"
	"FoodShare-Backend/pkg/user"
	"context"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
	"os"
	"time"
)

// NewApp wires repositories, services and handlers onto a fiber app. Open
// change streams end when ctx is cancelled.
func NewApp(ctx context.Context, db *gorm.DB, hub dashboard.Subscriber, publisher realtime.Publisher) (*fiber.App, error) {
	jwtSecret := utils.GetConfig("JWT_SECRET")
	if jwtSecret == "" {
		return nil, domain.ErrJWTSecretMissing
	}

	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetRateLimitMax(),
		Expiration: 1 * time.Second,
	}))

	// utils
	var s3 storage.AwsS3
	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		s3 = storage.NewAwsS3()
	}
	mailer := mailing.NewMailer()

	// Repository
	userRepository := user.NewUserRepository(db)
	foodRepository := food.NewFoodRepository(db)

	// Service
	jwtService := jwt.NewJWTService(jwtSecret)
	userService := user.NewUserService(userRepository, jwtService)
	foodService := food.NewFoodService(foodRepository, userRepository, s3, mailer, publisher)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	foodHandler := handlers.NewFoodHandler(ctx, foodService, hub, validator)

	// routes
	routesConfig := routes.Config{
		App:         app,
		UserHandler: userHandler,
		FoodHandler: foodHandler,
		Middleware:  middlewares,
		JWTService:  jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
