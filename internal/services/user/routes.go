package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/estatepro/internal/middleware"
	"github.com/rajivgeraev/estatepro/internal/utils"
)

// SetupRoutes регистрирует маршруты профиля
func (s *UserService) SetupRoutes(api fiber.Router, jwtService *utils.JWTService) {
	users := api.Group("/users")
	users.Use(middleware.AuthMiddleware(jwtService))

	users.Get("/me", s.GetMe)
	users.Patch("/me", s.UpdateMe)
}
