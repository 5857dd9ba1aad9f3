package property

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/db"
	"github.com/rajivgeraev/estatepro/internal/middleware"
	"github.com/rajivgeraev/estatepro/internal/models"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// PropertyService представляет сервис для работы с объектами недвижимости
type PropertyService struct {
	db     *db.DB
	logger *zap.Logger
}

// NewPropertyService создает новый экземпляр PropertyService
func NewPropertyService(store *db.DB, logger *zap.Logger) *PropertyService {
	return &PropertyService{db: store, logger: logger}
}

// GetPublished возвращает опубликованные объекты с фильтром по городу и сортировкой
func (s *PropertyService) GetPublished(c fiber.Ctx) error {
	skip, limit, err := window(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
	}

	items := s.db.Properties(db.PropertyFilter{
		PublishedOnly: true,
		City:          c.Query("city"),
		Sort:          c.Query("sort"),
		Skip:          skip,
		Limit:         limit,
	})
	return c.JSON(items)
}

// GetMine возвращает объекты текущего агента
func (s *PropertyService) GetMine(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	skip, limit, err := window(c)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
	}

	items := s.db.Properties(db.PropertyFilter{
		AgentID: userID,
		Status:  models.PropertyStatus(c.Query("status")),
		Sort:    c.Query("sort"),
		Skip:    skip,
		Limit:   limit,
	})
	return c.JSON(items)
}

// GetProperty возвращает объект. Неопубликованный объект виден только владельцу и администратору.
func (s *PropertyService) GetProperty(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "Invalid property id"})
	}

	p, err := s.db.PropertyByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Property not found"})
	}

	if p.Status != models.StatusPublished && !s.canManage(c, p) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Property not found"})
	}
	return c.JSON(p)
}

// CreateProperty создаёт объект от имени текущего агента
func (s *PropertyService) CreateProperty(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var in models.PropertyCreate
	if err := c.Bind().Body(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if msg := ValidateCreate(in); msg != "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": msg})
	}

	p, err := s.db.CreateProperty(userID, in)
	if err != nil {
		s.logger.Error("failed to create property", zap.Int64("agent_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to create property"})
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdateProperty частично обновляет объект владельца или администратора
func (s *PropertyService) UpdateProperty(c fiber.Ctx) error {
	p, status, msg := s.loadManaged(c, "update")
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"detail": msg})
	}

	var in models.PropertyUpdate
	if err := c.Bind().Body(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if msg := ValidateUpdate(in); msg != "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": msg})
	}

	updated, err := s.db.UpdateProperty(p.ID, in)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Property not found"})
	}
	return c.JSON(updated)
}

// DeleteProperty удаляет объект владельца или администратора
func (s *PropertyService) DeleteProperty(c fiber.Ctx) error {
	p, status, msg := s.loadManaged(c, "delete")
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"detail": msg})
	}

	if err := s.db.DeleteProperty(p.ID); err != nil && !errors.Is(err, db.ErrNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to delete property"})
	}
	return c.JSON(fiber.Map{"detail": "Property deleted successfully"})
}

// loadManaged находит объект и проверяет права на изменение
func (s *PropertyService) loadManaged(c fiber.Ctx, action string) (models.Property, int, string) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return models.Property{}, fiber.StatusUnprocessableEntity, "Invalid property id"
	}
	p, err := s.db.PropertyByID(id)
	if err != nil {
		return models.Property{}, fiber.StatusNotFound, "Property not found"
	}
	if !s.canManage(c, p) {
		return models.Property{}, fiber.StatusForbidden, "Not authorized to " + action + " this property"
	}
	return p, 0, ""
}

func (s *PropertyService) canManage(c fiber.Ctx, p models.Property) bool {
	userID, ok := middleware.UserID(c)
	if !ok {
		return false
	}
	if p.AgentID == userID {
		return true
	}
	u, err := s.db.UserByID(userID)
	return err == nil && u.IsAdmin()
}

// window разбирает параметры skip и limit
func window(c fiber.Ctx) (int, int, error) {
	skip, limit := 0, defaultLimit
	if v := c.Query("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, errors.New("skip must be a non-negative integer")
		}
		skip = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			return 0, 0, errors.New("limit must be between 1 and 1000")
		}
		limit = n
	}
	return skip, limit, nil
}
