package property

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/estatepro/internal/middleware"
	"github.com/rajivgeraev/estatepro/internal/utils"
)

// SetupRoutes настраивает маршруты для API объектов.
// В Fiber v3 обработчик идёт первым, middleware передаются после него.
func (s *PropertyService) SetupRoutes(api fiber.Router, jwtService *utils.JWTService) {
	auth := middleware.AuthMiddleware(jwtService)
	properties := api.Group("/properties")

	// Публичные маршруты
	properties.Get("/published", s.GetPublished)

	// Маршруты, требующие авторизации
	properties.Get("/mine", s.GetMine, auth)
	properties.Post("/", s.CreateProperty, auth)
	properties.Patch("/:id", s.UpdateProperty, auth)
	properties.Delete("/:id", s.DeleteProperty, auth)

	// Объект по ID доступен всем, токен учитывается для черновиков
	properties.Get("/:id", s.GetProperty, middleware.OptionalAuth(jwtService))
}
