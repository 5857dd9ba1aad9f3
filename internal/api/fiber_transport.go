package api

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/client"
)

// FiberTransport выполняет запросы через клиент Fiber
type FiberTransport struct {
	cc      *client.Client
	baseURL string
}

// NewFiberTransport создаёт транспорт с базовым URL и таймаутом на запрос
func NewFiberTransport(baseURL string, timeout time.Duration) *FiberTransport {
	cc := client.New().SetTimeout(timeout)
	return &FiberTransport{cc: cc, baseURL: strings.TrimRight(baseURL, "/")}
}

func (t *FiberTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	r := t.cc.R().
		SetContext(ctx).
		SetMethod(req.Method).
		SetURL(t.baseURL + req.Path)

	for k, v := range req.Header {
		r.SetHeader(k, v)
	}
	for k, vs := range req.Query {
		for _, v := range vs {
			r.AddParam(k, v)
		}
	}
	switch {
	case req.Form != nil:
		keys := make([]string, 0, len(req.Form))
		for k := range req.Form {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			r.SetFormData(k, req.Form.Get(k))
		}
	case req.JSON != nil:
		r.SetJSON(req.JSON)
	}

	resp, err := r.Send()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Close()

	// Тело принадлежит пулу fasthttp, копируем до Close
	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       slices.Clone(resp.Body()),
	}, nil
}
