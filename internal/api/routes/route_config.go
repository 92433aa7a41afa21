package routes

import (
	"FoodShare-Backend/domain"
	"FoodShare-Backend/internal/api/handlers"
	"FoodShare-Backend/internal/middleware"
	"FoodShare-Backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App         *fiber.App
	UserHandler handlers.UserHandler
	FoodHandler handlers.FoodHandler
	Middleware  middleware.Middleware
	JWTService  jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.FoodItems()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
	}
}

func (c *Config) FoodItems() {
	foodItems := c.App.Group("/api/v1/food-items", c.Middleware.AuthMiddleware(c.JWTService))
	donor := c.Middleware.RoleMiddleware(domain.RoleDonor)
	receiver := c.Middleware.RoleMiddleware(domain.RoleReceiver)

	foodItems.Get("/stream", c.FoodHandler.StreamFoodItems)

	// donor
	foodItems.Get("/form-defaults", donor, c.FoodHandler.GetFormDefaults)
	foodItems.Post("", donor, c.FoodHandler.AddFoodItem)
	foodItems.Post("/image", donor, c.FoodHandler.UploadFoodImage)
	foodItems.Get("/mine", donor, c.FoodHandler.GetDonorFoodItems)
	foodItems.Delete("/:id", donor, c.FoodHandler.DeleteFoodItem)

	// receiver
	foodItems.Get("/available", receiver, c.FoodHandler.GetAvailableFoodItems)
	foodItems.Post("/:id/claim", receiver, c.FoodHandler.ClaimFoodItem)
}
