package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/estatepro/internal/middleware"
)

// SetupRoutes регистрирует маршруты авторизации
func (s *AuthService) SetupRoutes(api fiber.Router) {
	group := api.Group("/auth")
	group.Post("/access-token", s.AccessTokenHandler)

	// Защищенные маршруты
	group.Get("/me", s.MeHandler, middleware.AuthMiddleware(s.jwtService))
}
