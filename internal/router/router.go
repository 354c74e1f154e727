// Package router builds the Fiber application and registers every route.
package router

import (
	"log"
	"strings"

	"lunchvote-backend/internal/audit"
	"lunchvote-backend/internal/auth"
	"lunchvote-backend/internal/config"
	"lunchvote-backend/internal/models"
	"lunchvote-backend/internal/restaurant"
	"lunchvote-backend/internal/vote"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler())
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/token/refresh", auth.RefreshHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Post("/auth/logout", auth.LogoutHandler(cfg))
	protected.Get("/auth/profile", auth.ProfileHandler())

	// Restaurants
	protected.Get("/restaurants", restaurant.ListRestaurantsHandler())
	protected.Post("/restaurants", auth.RequireRole(models.RoleRestaurantAdmin), restaurant.CreateRestaurantHandler())
	protected.Get("/restaurants/:id", restaurant.GetRestaurantHandler())
	protected.Patch("/restaurants/:id", restaurant.UpdateRestaurantHandler())
	protected.Delete("/restaurants/:id", restaurant.DeleteRestaurantHandler())
	protected.Patch("/restaurants/:id/add-employee", restaurant.AddEmployeeHandler())

	// Menus
	protected.Get("/restaurants/:id/menus", restaurant.ListMenusHandler())
	protected.Post("/restaurants/:id/menus", restaurant.CreateMenuHandler())
	protected.Get("/restaurants/:id/menus/:menuID", restaurant.GetMenuHandler())
	protected.Patch("/restaurants/:id/menus/:menuID", restaurant.UpdateMenuHandler())
	protected.Delete("/restaurants/:id/menus/:menuID", restaurant.DeleteMenuHandler())
	protected.Get("/restaurants/:id/daily-menu", restaurant.DailyMenuHandler())

	// Votes
	protected.Post("/votes/vote", vote.CastVoteHandler())
	protected.Get("/votes/results", vote.ResultsHandler())

	// Audit logs
	protected.Get("/audit-logs", auth.RequireRole(models.RoleRestaurantAdmin), audit.ListAuditLogsHandler())

	return app
}
