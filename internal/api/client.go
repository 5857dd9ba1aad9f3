package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestInterceptor вызывается перед отправкой каждого запроса
type RequestInterceptor func(req *Request)

// ResponseInterceptor вызывается после получения ответа. Возвращённая ошибка
// заменяет результат вызова.
type ResponseInterceptor func(req *Request, resp *Response) error

// Client выполняет вызовы API поверх Transport
type Client struct {
	transport Transport
	logger    *zap.Logger

	onRequest  []RequestInterceptor
	onResponse []ResponseInterceptor
}

// NewClient создаёт клиент API
func NewClient(transport Transport, logger *zap.Logger) *Client {
	return &Client{transport: transport, logger: logger}
}

// OnRequest добавляет интерсептор запросов. Регистрируется при сборке приложения.
func (c *Client) OnRequest(fn RequestInterceptor) {
	c.onRequest = append(c.onRequest, fn)
}

// OnResponse добавляет интерсептор ответов. Регистрируется при сборке приложения.
func (c *Client) OnResponse(fn ResponseInterceptor) {
	c.onResponse = append(c.onResponse, fn)
}

// Do отправляет запрос и возвращает ответ со статусом < 400.
// Ответ со статусом >= 400 превращается в *StatusError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Header["X-Request-ID"] == "" {
		req.SetHeader("X-Request-ID", uuid.NewString())
	}
	for _, fn := range c.onRequest {
		fn(req)
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("api response",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", req.Header["X-Request-ID"]))

	for _, fn := range c.onResponse {
		if err := fn(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{Code: resp.StatusCode, Detail: parseDetail(resp.Body)}
	}
	return resp, nil
}

// getJSON выполняет GET и декодирует ответ в out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// call выполняет запрос и декодирует тело ответа, если out != nil
func (c *Client) call(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("ошибка разбора ответа %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

// parseDetail извлекает текст ошибки из тела {"detail": ...} или {"error": ...}
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		// Ошибки валидации приходят списком объектов
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
			return items[0].Msg
		}
	}
	return payload.Error
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
