package storage

import (
	"fmt"

	"github.com/rajivgeraev/estatepro/internal/config"
	"go.uber.org/zap"
)

// Open создаёт хранилище согласно настройкам драйвера
func Open(cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverFile, "":
		return NewFileStore(cfg.Path, logger)
	case config.DriverPostgres:
		return NewPostgresStore(cfg.DatabaseURL, cfg.Table, logger)
	case config.DriverRedis:
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix, logger)
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
}

// Close закрывает хранилище, если оно держит соединения
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
