package listing

import (
	"context"

	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/models"
)

// MineSource источник объектов текущего агента
type MineSource interface {
	MyProperties(ctx context.Context, q api.MineQuery) ([]models.Property, error)
}

// MineKey ключ выборки объектов агента
type MineKey struct {
	Status      models.PropertyStatus
	SortByPrice bool
	Page        int
}

func (k MineKey) PageNumber() int { return k.Page }

// NewMineController создаёт контроллер панели агента
func NewMineController(src MineSource, pageSize int, logger *zap.Logger) *Controller[MineKey] {
	fetch := func(ctx context.Context, key MineKey, skip, limit int) ([]models.Property, error) {
		return src.MyProperties(ctx, api.MineQuery{
			Status:      key.Status,
			SortByPrice: key.SortByPrice,
			Skip:        skip,
			Limit:       limit,
		})
	}
	return NewController(fetch, pageSize, logger)
}
