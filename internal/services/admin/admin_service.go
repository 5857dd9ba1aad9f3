package admin

import (
	"errors"
	"net/mail"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/db"
	"github.com/rajivgeraev/estatepro/internal/models"
	"github.com/rajivgeraev/estatepro/internal/services/user"
)

// AdminService обслуживает управление агентами и общий список объектов
type AdminService struct {
	db     *db.DB
	logger *zap.Logger
}

// NewAdminService создаёт новый экземпляр AdminService
func NewAdminService(store *db.DB, logger *zap.Logger) *AdminService {
	return &AdminService{db: store, logger: logger}
}

// IsAdmin проверяет роль пользователя
func (s *AdminService) IsAdmin(userID int64) bool {
	u, err := s.db.UserByID(userID)
	return err == nil && u.IsAdmin()
}

// ListAgents возвращает всех агентов
func (s *AdminService) ListAgents(c fiber.Ctx) error {
	return c.JSON(s.db.UsersByRole(models.RoleAgent))
}

// CreateAgent создаёт нового агента
func (s *AdminService) CreateAgent(c fiber.Ctx) error {
	var in models.UserCreate
	if err := c.Bind().Body(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "email is not valid"})
	}
	if len(in.Name) < 2 || len(in.Password) < 6 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "name or password is too short"})
	}

	agent, err := s.db.CreateUser(in, models.RoleAgent)
	if errors.Is(err, db.ErrEmailTaken) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "User with this email already exists"})
	}
	if err != nil {
		s.logger.Error("failed to create agent", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to create agent"})
	}
	return c.JSON(agent)
}

// UpdateAgent частично обновляет агента
func (s *AdminService) UpdateAgent(c fiber.Ctx) error {
	agent, status, msg := s.loadAgent(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"detail": msg})
	}

	var in models.UserUpdate
	if err := c.Bind().Body(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if msg := user.ValidateUpdate(in); msg != "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": msg})
	}

	updated, err := s.db.UpdateUser(agent.ID, in)
	if errors.Is(err, db.ErrEmailTaken) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Email already registered"})
	}
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Agent not found"})
	}
	return c.JSON(updated)
}

// DeleteAgent удаляет агента вместе с его объектами
func (s *AdminService) DeleteAgent(c fiber.Ctx) error {
	agent, status, msg := s.loadAgent(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"detail": msg})
	}
	if err := s.db.DeleteUser(agent.ID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Agent not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AllProperties возвращает все объекты независимо от статуса
func (s *AdminService) AllProperties(c fiber.Ctx) error {
	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 100
	}
	return c.JSON(s.db.Properties(db.PropertyFilter{Skip: skip, Limit: limit}))
}

func (s *AdminService) loadAgent(c fiber.Ctx) (models.User, int, string) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return models.User{}, fiber.StatusUnprocessableEntity, "Invalid agent id"
	}
	u, err := s.db.UserByID(id)
	if err != nil {
		return models.User{}, fiber.StatusNotFound, "Agent not found"
	}
	if u.Role != models.RoleAgent {
		return models.User{}, fiber.StatusBadRequest, "User is not an agent"
	}
	return u, 0, ""
}
