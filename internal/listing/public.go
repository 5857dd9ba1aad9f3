package listing

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/models"
)

// citiesLimit размер выборки, по которой строится список городов
const citiesLimit = 1000

// PublishedSource источник публичного каталога
type PublishedSource interface {
	Published(ctx context.Context, q api.PublishedQuery) ([]models.Property, error)
}

// PublicKey ключ выборки публичного каталога
type PublicKey struct {
	City string
	Sort models.Sort
	Page int
}

func (k PublicKey) PageNumber() int { return k.Page }

// NewPublicController создаёт контроллер публичного каталога
func NewPublicController(src PublishedSource, pageSize int, logger *zap.Logger) *Controller[PublicKey] {
	fetch := func(ctx context.Context, key PublicKey, skip, limit int) ([]models.Property, error) {
		return src.Published(ctx, api.PublishedQuery{
			City:  key.City,
			Sort:  key.Sort,
			Skip:  skip,
			Limit: limit,
		})
	}
	return NewController(fetch, pageSize, logger)
}

// ListDistinctCities возвращает отсортированный список городов опубликованных объектов.
// Список строится заново при каждом вызове.
func ListDistinctCities(ctx context.Context, src PublishedSource) ([]string, error) {
	items, err := src.Published(ctx, api.PublishedQuery{Limit: citiesLimit})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	cities := make([]string, 0, len(items))
	for _, p := range items {
		if p.City == "" {
			continue
		}
		if _, ok := seen[p.City]; ok {
			continue
		}
		seen[p.City] = struct{}{}
		cities = append(cities, p.City)
	}
	slices.Sort(cities)
	return cities, nil
}

// FilterLocal оставляет объекты страницы, у которых название или город содержит term без учёта регистра
func FilterLocal(items []models.Property, term string) []models.Property {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := make([]models.Property, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Title), term) || strings.Contains(strings.ToLower(p.City), term) {
			out = append(out, p)
		}
	}
	return out
}
