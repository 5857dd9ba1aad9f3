package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/models"
)

func reply(status int, body string) TransportFunc {
	return func(ctx context.Context, req *Request) (*Response, error) {
		return &Response{StatusCode: status, Body: []byte(body)}, nil
	}
}

func TestDoStatusError(t *testing.T) {
	c := NewClient(reply(http.StatusBadRequest, `{"detail":"Email already registered"}`), zap.NewNop())

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/users/me"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Email already registered", se.Detail)
	assert.Equal(t, "Email already registered", Message(err))
}

func TestDoSetsRequestIDAndRunsInterceptors(t *testing.T) {
	var seen *Request
	c := NewClient(TransportFunc(func(ctx context.Context, req *Request) (*Response, error) {
		seen = req
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
	}), zap.NewNop())

	c.OnRequest(func(req *Request) { req.SetHeader("Authorization", "Bearer t") })
	sentinel := errors.New("intercepted")
	c.OnResponse(func(req *Request, resp *Response) error {
		if req.Path == "/fail" {
			return sentinel
		}
		return nil
	})

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/ok"})
	require.NoError(t, err)
	assert.NotEmpty(t, seen.Header["X-Request-ID"])
	assert.Equal(t, "Bearer t", seen.Header["Authorization"])

	_, err = c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/fail"})
	assert.ErrorIs(t, err, sentinel)
}

func TestParseDetail(t *testing.T) {
	assert.Equal(t, "boom", parseDetail([]byte(`{"detail":"boom"}`)))
	assert.Equal(t, "field required", parseDetail([]byte(`{"detail":[{"msg":"field required"}]}`)))
	assert.Equal(t, "legacy", parseDetail([]byte(`{"error":"legacy"}`)))
	assert.Empty(t, parseDetail([]byte(`<html>`)))
}

func TestAccessTokenErrorMapping(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(reply(http.StatusUnauthorized, `{"detail":"Incorrect email or password"}`), zap.NewNop()).
		AccessToken(ctx, "a@b.c", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password", Message(err))

	_, err = NewClient(reply(http.StatusTooManyRequests, `{}`), zap.NewNop()).AccessToken(ctx, "a@b.c", "x")
	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, DefaultRetryHint, rl.RetryHint)
	assert.Equal(t, "Too many failed login attempts. Please try again in 1 minute.", Message(err))

	// Текст сервера сохраняется, но подсказка для пользователя остаётся прежней
	_, err = NewClient(reply(http.StatusTooManyRequests, `{"detail":"Too many failed login attempts. Please try again later."}`), zap.NewNop()).
		AccessToken(ctx, "a@b.c", "x")
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "Too many failed login attempts. Please try again later.", rl.Detail)
	assert.Equal(t, DefaultRetryHint, rl.RetryHint)
	assert.Equal(t, "Too many failed login attempts. Please try again in 1 minute.", Message(err))

	_, err = NewClient(reply(http.StatusInternalServerError, `{}`), zap.NewNop()).AccessToken(ctx, "a@b.c", "x")
	assert.ErrorIs(t, err, ErrUnknown)

	_, err = NewClient(TransportFunc(func(ctx context.Context, req *Request) (*Response, error) {
		return nil, context.DeadlineExceeded
	}), zap.NewNop()).AccessToken(ctx, "a@b.c", "x")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestAccessTokenSendsForm(t *testing.T) {
	var seen *Request
	c := NewClient(TransportFunc(func(ctx context.Context, req *Request) (*Response, error) {
		seen = req
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{"access_token":"tok","token_type":"bearer"}`)}, nil
	}), zap.NewNop())

	tok, err := c.AccessToken(context.Background(), "agent@realestate.pro", "agent123")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
	assert.True(t, seen.NoAuth)
	assert.Equal(t, "agent@realestate.pro", seen.Form.Get("username"))
	assert.Equal(t, "agent123", seen.Form.Get("password"))
}

func TestPublishedQueryAndFetchFailed(t *testing.T) {
	var seen *Request
	c := NewClient(TransportFunc(func(ctx context.Context, req *Request) (*Response, error) {
		seen = req
		return &Response{StatusCode: http.StatusOK, Body: []byte(`[{"id":1,"city":"New York"}]`)}, nil
	}), zap.NewNop())

	items, err := c.Published(context.Background(), PublishedQuery{City: "New York", Sort: models.SortPriceAsc, Skip: 8, Limit: 8})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "New York", seen.Query.Get("city"))
	assert.Equal(t, "price_asc", seen.Query.Get("sort"))
	assert.Equal(t, "8", seen.Query.Get("skip"))
	assert.Equal(t, "8", seen.Query.Get("limit"))

	_, err = c.Published(context.Background(), PublishedQuery{})
	require.NoError(t, err)
	assert.False(t, seen.Query.Has("city"))
	assert.False(t, seen.Query.Has("sort"))

	_, err = NewClient(reply(http.StatusBadGateway, ``), zap.NewNop()).Published(context.Background(), PublishedQuery{})
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestGetPropertyNotFound(t *testing.T) {
	_, err := NewClient(reply(http.StatusNotFound, `{"detail":"Property not found"}`), zap.NewNop()).
		GetProperty(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMalformedBody(t *testing.T) {
	_, err := NewClient(reply(http.StatusOK, `{"id":`), zap.NewNop()).GetMe(context.Background())
	assert.Error(t, err)
}
