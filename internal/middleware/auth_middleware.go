package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/estatepro/internal/utils"
)

const userIDKey = "userID"

// AuthMiddleware создаёт middleware для проверки JWT
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Not authenticated",
			})
		}

		userID, ok := bearerUserID(jwtService, authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Could not validate credentials",
			})
		}

		// Добавляем userID в контекст
		c.Locals(userIDKey, userID)

		return c.Next()
	}
}

// OptionalAuth кладёт userID в контекст, если передан валидный токен, и никогда не отклоняет запрос
func OptionalAuth(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		if userID, ok := bearerUserID(jwtService, c.Get("Authorization")); ok {
			c.Locals(userIDKey, userID)
		}
		return c.Next()
	}
}

// UserID возвращает ID пользователя из контекста запроса
func UserID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(userIDKey).(int64)
	return id, ok
}

func bearerUserID(jwtService *utils.JWTService, header string) (int64, bool) {
	// Проверяем Bearer токен
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, false
	}
	userID, err := jwtService.ExtractUserID(parts[1])
	if err != nil {
		return 0, false
	}
	return userID, true
}

// RequireRole пропускает запрос, только если isAllowed подтверждает права пользователя из контекста.
// Используется после AuthMiddleware.
func RequireRole(isAllowed func(userID int64) bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok || !isAllowed(userID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": "The user doesn't have enough privileges",
			})
		}
		return c.Next()
	}
}
