package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore хранит клиентское состояние в таблице key/value PostgreSQL
type PostgresStore struct {
	pool   *pgxpool.Pool
	table  string
	logger *zap.Logger
}

// NewPostgresStore подключается к базе данных и создаёт таблицу, если её нет
func NewPostgresStore(databaseURL, table string, logger *zap.Logger) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Настраиваем конфигурацию пула соединений
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе URL базы данных: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пула соединений: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка при проверке соединения: %w", err)
	}

	s := &PostgresStore{pool: pool, table: pq.QuoteIdentifier(table), logger: logger}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("✅ connected to postgres state store", zap.String("table", table))
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table+` (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы состояния: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(key string) (string, error) {
	ctx, cancel := getContext()
	defer cancel()

	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM `+s.table+` WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		s.logger.Error("postgres get failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("postgresStore.Get for key '%s': %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(key, value string) error {
	ctx, cancel := getContext()
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+s.table+` (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		s.logger.Error("postgres set failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("postgresStore.Set for key '%s': %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(key string) error {
	ctx, cancel := getContext()
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE key = $1`, key); err != nil {
		s.logger.Error("postgres delete failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("postgresStore.Delete for key '%s': %w", key, err)
	}
	return nil
}

// Close закрывает пул соединений
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
