package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore хранит клиентское состояние в Redis под общим префиксом
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore подключается к Redis и проверяет соединение
func NewRedisStore(addr, password string, db int, prefix string, logger *zap.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", zap.String("address", addr), zap.Error(err))
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	logger.Info("Successfully connected to Redis", zap.String("address", addr))
	return NewRedisStoreFromClient(rdb, prefix, logger), nil
}

// NewRedisStoreFromClient оборачивает готовый клиент
func NewRedisStoreFromClient(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (s *RedisStore) Get(key string) (string, error) {
	ctx, cancel := getContext()
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		s.logger.Error("Redis Get operation failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("redisStore.Get for key '%s': %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := getContext()
	defer cancel()

	// Без TTL: состояние живёт, пока его не удалит владелец
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		s.logger.Error("Redis Set operation failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redisStore.Set for key '%s': %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(key string) error {
	ctx, cancel := getContext()
	defer cancel()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.Error("Redis Del operation failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redisStore.Delete for key '%s': %w", key, err)
	}
	return nil
}

// Close закрывает клиент Redis
func (s *RedisStore) Close() error {
	return s.client.Close()
}
