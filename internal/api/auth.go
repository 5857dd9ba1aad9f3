package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/rajivgeraev/estatepro/internal/models"
)

// AccessToken обменивает email и пароль на токен.
// 401 даёт ErrInvalidCredentials, 429 даёт *RateLimitError, остальное оборачивается в ErrUnknown.
func (c *Client) AccessToken(ctx context.Context, email, password string) (models.Token, error) {
	req := &Request{
		Method: http.MethodPost,
		Path:   "/auth/access-token",
		Form:   url.Values{"username": {email}, "password": {password}},
		NoAuth: true,
	}

	var tok models.Token
	err := c.call(ctx, req, &tok)
	if err == nil && tok.AccessToken == "" {
		err = errors.New("empty access token in response")
	}
	if err != nil {
		switch StatusCode(err) {
		case http.StatusUnauthorized:
			return models.Token{}, ErrInvalidCredentials
		case http.StatusTooManyRequests:
			var detail string
			var se *StatusError
			if errors.As(err, &se) {
				detail = se.Detail
			}
			return models.Token{}, &RateLimitError{RetryHint: DefaultRetryHint, Detail: detail}
		}
		return models.Token{}, errors.Join(ErrUnknown, err)
	}
	return tok, nil
}

// GetMeWithToken запрашивает профиль с явно переданным токеном.
// Запрос помечен NoAuth, отказ не сбрасывает текущую сессию.
func (c *Client) GetMeWithToken(ctx context.Context, token string) (*models.User, error) {
	req := &Request{Method: http.MethodGet, Path: "/users/me", NoAuth: true}
	req.SetHeader("Authorization", "Bearer "+token)

	var u models.User
	if err := c.call(ctx, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
