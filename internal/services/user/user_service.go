package user

import (
	"errors"
	"net/mail"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/db"
	"github.com/rajivgeraev/estatepro/internal/middleware"
	"github.com/rajivgeraev/estatepro/internal/models"
)

// UserService обслуживает профиль текущего пользователя
type UserService struct {
	db     *db.DB
	logger *zap.Logger
}

// NewUserService создаёт новый экземпляр UserService
func NewUserService(store *db.DB, logger *zap.Logger) *UserService {
	return &UserService{db: store, logger: logger}
}

// GetMe возвращает профиль текущего пользователя
func (s *UserService) GetMe(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	user, err := s.db.UserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Could not validate credentials"})
	}
	return c.JSON(user)
}

// UpdateMe частично обновляет профиль текущего пользователя
func (s *UserService) UpdateMe(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var in models.UserUpdate
	if err := c.Bind().Body(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if msg := ValidateUpdate(in); msg != "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": msg})
	}

	user, err := s.db.UpdateUser(userID, in)
	switch {
	case errors.Is(err, db.ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Email already registered"})
	case errors.Is(err, db.ErrNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Could not validate credentials"})
	case err != nil:
		s.logger.Error("failed to update profile", zap.Int64("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to update profile"})
	}
	return c.JSON(user)
}

// ValidateUpdate проверяет поля обновления профиля и возвращает текст ошибки
func ValidateUpdate(in models.UserUpdate) string {
	if in.Name != nil && len(*in.Name) < 2 {
		return "name must be at least 2 characters"
	}
	if in.Email != nil {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return "email is not valid"
		}
	}
	if in.Password != nil && len(*in.Password) < 6 {
		return "password must be at least 6 characters"
	}
	return ""
}
