// Package api содержит HTTP-клиент внешнего API недвижимости:
// порт транспорта, цепочку интерсепторов и типизированные вызовы эндпоинтов.
package api

import (
	"context"
	"net/url"
)

// Request описывает один исходящий запрос к API
type Request struct {
	Method string
	// Path указывается относительно базового URL, например /properties/published
	Path   string
	Query  url.Values
	Form   url.Values
	JSON   any
	Header map[string]string
	// NoAuth исключает запрос из обработки авторизации (запрос логина)
	NoAuth bool
}

// SetHeader устанавливает заголовок запроса
func (r *Request) SetHeader(key, value string) {
	if r.Header == nil {
		r.Header = make(map[string]string)
	}
	r.Header[key] = value
}

// Response содержит полностью прочитанный ответ
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport выполняет запрос. Ответ с любым HTTP-статусом не является ошибкой транспорта.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc позволяет использовать функцию как Transport
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

func (f TransportFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
