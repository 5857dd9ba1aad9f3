package admin

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/estatepro/internal/middleware"
	"github.com/rajivgeraev/estatepro/internal/utils"
)

// SetupRoutes регистрирует маршруты администратора
func (s *AdminService) SetupRoutes(api fiber.Router, jwtService *utils.JWTService) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtService))
	admin.Use(middleware.RequireRole(s.IsAdmin))

	admin.Get("/agents", s.ListAgents)
	admin.Post("/agents", s.CreateAgent)
	admin.Put("/agents/:id", s.UpdateAgent)
	admin.Delete("/agents/:id", s.DeleteAgent)
	admin.Get("/properties", s.AllProperties)
}
