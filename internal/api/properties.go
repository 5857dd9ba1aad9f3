package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rajivgeraev/estatepro/internal/models"
)

// PublishedQuery задаёт выборку публичного каталога
type PublishedQuery struct {
	City  string
	Sort  models.Sort
	Skip  int
	Limit int
}

// MineQuery задаёт выборку объектов текущего агента
type MineQuery struct {
	Status models.PropertyStatus
	// SortByPrice сортирует по убыванию цены, иначе новые первыми
	SortByPrice bool
	Skip        int
	Limit       int
}

// Published возвращает опубликованные объекты. Любой сбой оборачивается в ErrFetchFailed.
func (c *Client) Published(ctx context.Context, q PublishedQuery) ([]models.Property, error) {
	query := url.Values{}
	if q.City != "" {
		query.Set("city", q.City)
	}
	if q.Sort != models.SortNone {
		query.Set("sort", string(q.Sort))
	}
	query.Set("skip", itoa(q.Skip))
	if q.Limit > 0 {
		query.Set("limit", itoa(q.Limit))
	}

	var items []models.Property
	if err := c.getJSON(ctx, "/properties/published", query, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return items, nil
}

// MyProperties возвращает объекты текущего агента
func (c *Client) MyProperties(ctx context.Context, q MineQuery) ([]models.Property, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}
	if q.SortByPrice {
		query.Set("sort", "price")
	}
	query.Set("skip", itoa(q.Skip))
	if q.Limit > 0 {
		query.Set("limit", itoa(q.Limit))
	}

	var items []models.Property
	if err := c.getJSON(ctx, "/properties/mine", query, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return items, nil
}

// GetProperty возвращает объект по ID. Неопубликованный чужой объект даёт ErrNotFound.
func (c *Client) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	var p models.Property
	if err := c.getJSON(ctx, propertyPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProperty создаёт объект от имени текущего агента
func (c *Client) CreateProperty(ctx context.Context, in models.PropertyCreate) (*models.Property, error) {
	var p models.Property
	if err := c.call(ctx, &Request{Method: http.MethodPost, Path: "/properties", JSON: in}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProperty частично обновляет объект, включая публикацию и снятие с публикации
func (c *Client) UpdateProperty(ctx context.Context, id int64, in models.PropertyUpdate) (*models.Property, error) {
	var p models.Property
	if err := c.call(ctx, &Request{Method: http.MethodPatch, Path: propertyPath(id), JSON: in}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProperty удаляет объект
func (c *Client) DeleteProperty(ctx context.Context, id int64) error {
	return c.call(ctx, &Request{Method: http.MethodDelete, Path: propertyPath(id)}, nil)
}

func propertyPath(id int64) string {
	return "/properties/" + strconv.FormatInt(id, 10)
}
