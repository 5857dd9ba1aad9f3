package auth

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/db"
	"github.com/rajivgeraev/estatepro/internal/middleware"
	"github.com/rajivgeraev/estatepro/internal/models"
	"github.com/rajivgeraev/estatepro/internal/utils"
)

// AuthService – структура для обработки авторизации
type AuthService struct {
	db         *db.DB
	jwtService *utils.JWTService
	limiter    *LoginLimiter
	logger     *zap.Logger
}

// NewAuthService – конструктор AuthService
func NewAuthService(store *db.DB, jwtService *utils.JWTService, limiter *LoginLimiter, logger *zap.Logger) *AuthService {
	if limiter == nil {
		limiter = NewLoginLimiter(5, time.Minute)
	}
	return &AuthService{
		db:         store,
		jwtService: jwtService,
		limiter:    limiter,
		logger:     logger,
	}
}

// GetJWTService возвращает сервис токенов для middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// AccessTokenHandler проверяет email и пароль из формы и выдаёт JWT
func (s *AuthService) AccessTokenHandler(c fiber.Ctx) error {
	// Поле username содержит email
	email := c.FormValue("username")
	password := c.FormValue("password")

	if email == "" || password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "username and password are required"})
	}

	// Проверяем ограничение попыток
	if s.limiter.Limited(email) {
		s.logger.Warn("login rate limited", zap.String("email", email))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"detail": "Too many failed login attempts. Please try again later.",
		})
	}

	user, ok := s.db.Authenticate(email, password)
	if !ok {
		s.limiter.Fail(email)
		c.Set("WWW-Authenticate", "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Incorrect email or password"})
	}
	s.limiter.Reset(email)

	// Генерируем JWT
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to generate token"})
	}

	return c.JSON(models.Token{AccessToken: token, TokenType: "bearer"})
}

// MeHandler возвращает профиль владельца токена
func (s *AuthService) MeHandler(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	user, err := s.db.UserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Could not validate credentials"})
	}
	return c.JSON(user)
}
