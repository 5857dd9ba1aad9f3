// Package storage содержит порт key-value хранилища клиентского состояния
// (токен, избранное, тема) и его адаптеры.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound возвращается, когда ключ отсутствует в хранилище
var ErrNotFound = errors.New("storage: key not found")

// Store представляет синхронное key-value хранилище.
// Каждый раздел (ключ) имеет единственного владельца-писателя.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Closer реализуют адаптеры, которые держат внешние соединения
type Closer interface {
	Close() error
}

// opTimeout ограничивает время одной операции сетевых адаптеров
const opTimeout = 5 * time.Second

// getContext возвращает контекст с таймаутом для одной операции с хранилищем
func getContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
