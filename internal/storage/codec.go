package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ReadJSON читает и декодирует значение ключа.
// Отсутствующее, нечитаемое или повреждённое значение даёт нулевое значение типа:
// ошибка логируется, но вызывающему не возвращается. Повреждённое значение удаляется.
func ReadJSON[T any](s Store, key string, logger *zap.Logger) T {
	var zero T

	raw, err := s.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("failed to read persisted value, using default", zap.String("key", key), zap.Error(err))
		}
		return zero
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger.Warn("persisted value is corrupt, resetting", zap.String("key", key), zap.Error(err))
		if err := s.Delete(key); err != nil {
			logger.Warn("failed to reset corrupt value", zap.String("key", key), zap.Error(err))
		}
		return zero
	}
	return v
}

// WriteJSON кодирует значение и сохраняет его под ключом
func WriteJSON(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ошибка сериализации значения %q: %w", key, err)
	}
	return s.Set(key, string(raw))
}
