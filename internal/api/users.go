package api

import (
	"context"
	"net/http"

	"github.com/rajivgeraev/estatepro/internal/models"
)

// GetMe возвращает профиль текущего пользователя
func (c *Client) GetMe(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.getJSON(ctx, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe частично обновляет профиль текущего пользователя
func (c *Client) UpdateMe(ctx context.Context, in models.UserUpdate) (*models.User, error) {
	var u models.User
	if err := c.call(ctx, &Request{Method: http.MethodPatch, Path: "/users/me", JSON: in}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
