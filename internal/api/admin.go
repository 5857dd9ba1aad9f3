package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rajivgeraev/estatepro/internal/models"
)

// ListAgents возвращает всех агентов (только для администратора)
func (c *Client) ListAgents(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.getJSON(ctx, "/admin/agents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAgent создаёт агента
func (c *Client) CreateAgent(ctx context.Context, in models.UserCreate) (*models.User, error) {
	var u models.User
	if err := c.call(ctx, &Request{Method: http.MethodPost, Path: "/admin/agents", JSON: in}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateAgent частично обновляет агента
func (c *Client) UpdateAgent(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	var u models.User
	if err := c.call(ctx, &Request{Method: http.MethodPut, Path: agentPath(id), JSON: in}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteAgent удаляет агента
func (c *Client) DeleteAgent(ctx context.Context, id int64) error {
	return c.call(ctx, &Request{Method: http.MethodDelete, Path: agentPath(id)}, nil)
}

// AllProperties возвращает все объекты независимо от статуса
func (c *Client) AllProperties(ctx context.Context, skip, limit int) ([]models.Property, error) {
	query := url.Values{"skip": {itoa(skip)}}
	if limit > 0 {
		query.Set("limit", itoa(limit))
	}
	var out []models.Property
	if err := c.getJSON(ctx, "/admin/properties", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func agentPath(id int64) string {
	return "/admin/agents/" + strconv.FormatInt(id, 10)
}
