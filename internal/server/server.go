// Package server собирает stand-in API недвижимости на Fiber.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/db"
	"github.com/rajivgeraev/estatepro/internal/services/admin"
	"github.com/rajivgeraev/estatepro/internal/services/auth"
	"github.com/rajivgeraev/estatepro/internal/services/property"
	"github.com/rajivgeraev/estatepro/internal/services/user"
	"github.com/rajivgeraev/estatepro/internal/utils"
)

// Options задаёт зависимости сервера
type Options struct {
	DB        *db.DB
	JWTSecret string
	TokenTTL  time.Duration
	// Limiter по умолчанию допускает 5 неудачных входов в минуту
	Limiter   *auth.LoginLimiter
	AccessLog bool
	Logger    *zap.Logger
}

// NewApp создаёт приложение Fiber со всеми маршрутами /api/v1
func NewApp(opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "EstatePro API (stand-in)",
		ErrorHandler: errorHandler,
		// Значения из запроса сохраняются в ограничителе входа
		Immutable:    true,
	})

	// Добавляем middleware
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	jwtService := utils.NewJWTService(opts.JWTSecret, opts.TokenTTL)

	// Создаём сервисы
	authService := auth.NewAuthService(opts.DB, jwtService, opts.Limiter, log)
	userService := user.NewUserService(opts.DB, log)
	propertyService := property.NewPropertyService(opts.DB, log)
	adminService := admin.NewAdminService(opts.DB, log)

	// Регистрируем маршруты
	api := app.Group("/api/v1")
	authService.SetupRoutes(api)
	userService.SetupRoutes(api, jwtService)
	propertyService.SetupRoutes(api, jwtService)
	adminService.SetupRoutes(api, jwtService)

	return app
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	// Ошибки отдаются в формате {"detail": "..."}
	return c.Status(code).JSON(fiber.Map{
		"detail": err.Error(),
	})
}
