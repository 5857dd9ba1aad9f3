package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config структура конфигурации клиента
type Config struct {
	APIURL           string
	MediaURL         string
	PageSize         int
	MyPageSize       int
	LoginTimeout     time.Duration
	LoginMinDelay    time.Duration
	HTTPTimeout      time.Duration
	StorageConfig    StorageConfig
	CloudinaryConfig CloudinaryConfig
	LogConfig        LogConfig
	MockAPIConfig    MockAPIConfig
	AppEnv           string
}

// StorageConfig содержит настройки постоянного хранилища состояния клиента
type StorageConfig struct {
	Driver        string // file, memory, postgres, redis
	Path          string
	DatabaseURL   string
	Table         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Enabled сообщает, заданы ли параметры Cloudinary
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != ""
}

// LogConfig содержит настройки логгера
type LogConfig struct {
	Level    string
	Encoding string
}

// MockAPIConfig содержит настройки локального stand-in API
type MockAPIConfig struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
}

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// LoadConfig загружает переменные из .env, окружения и необязательного yaml-файла
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("ESTATE_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("estatepro")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	cfg := &Config{
		APIURL:        strings.TrimRight(v.GetString("API_URL"), "/"),
		MediaURL:      v.GetString("MEDIA_URL"),
		PageSize:      v.GetInt("PAGE_SIZE"),
		MyPageSize:    v.GetInt("MY_PAGE_SIZE"),
		LoginTimeout:  v.GetDuration("LOGIN_TIMEOUT"),
		LoginMinDelay: v.GetDuration("LOGIN_MIN_DELAY"),
		HTTPTimeout:   v.GetDuration("HTTP_TIMEOUT"),
		StorageConfig: StorageConfig{
			Driver:        strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Path:          expandHome(v.GetString("STORAGE_PATH")),
			DatabaseURL:   v.GetString("DATABASE_URL"),
			Table:         v.GetString("STORAGE_TABLE"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			RedisPrefix:   v.GetString("REDIS_PREFIX"),
		},
		CloudinaryConfig: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		LogConfig: LogConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
		MockAPIConfig: MockAPIConfig{
			Port:      v.GetString("MOCK_API_PORT"),
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("TOKEN_TTL"),
		},
		AppEnv: v.GetString("APP_ENV"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию, без чтения окружения
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{
		APIURL:        v.GetString("API_URL"),
		MediaURL:      v.GetString("MEDIA_URL"),
		PageSize:      v.GetInt("PAGE_SIZE"),
		MyPageSize:    v.GetInt("MY_PAGE_SIZE"),
		LoginTimeout:  v.GetDuration("LOGIN_TIMEOUT"),
		LoginMinDelay: v.GetDuration("LOGIN_MIN_DELAY"),
		HTTPTimeout:   v.GetDuration("HTTP_TIMEOUT"),
		StorageConfig: StorageConfig{
			Driver:      DriverMemory,
			Table:       v.GetString("STORAGE_TABLE"),
			RedisPrefix: v.GetString("REDIS_PREFIX"),
		},
		LogConfig: LogConfig{Level: v.GetString("LOG_LEVEL"), Encoding: v.GetString("LOG_ENCODING")},
		MockAPIConfig: MockAPIConfig{
			Port:      v.GetString("MOCK_API_PORT"),
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("TOKEN_TTL"),
		},
		AppEnv: v.GetString("APP_ENV"),
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("config: API_URL is required")
	}
	if c.PageSize < 1 || c.MyPageSize < 1 {
		return fmt.Errorf("config: page size must be positive (PAGE_SIZE=%d, MY_PAGE_SIZE=%d)", c.PageSize, c.MyPageSize)
	}
	switch c.StorageConfig.Driver {
	case DriverFile:
		if c.StorageConfig.Path == "" {
			return errors.New("config: STORAGE_PATH is required for the file driver")
		}
	case DriverMemory:
	case DriverPostgres:
		if c.StorageConfig.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres driver")
		}
	case DriverRedis:
		if c.StorageConfig.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageConfig.Driver)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_URL", "http://localhost:8000/api/v1")
	v.SetDefault("MEDIA_URL", "http://localhost:8000/")
	v.SetDefault("PAGE_SIZE", 8)
	v.SetDefault("MY_PAGE_SIZE", 5)
	v.SetDefault("LOGIN_TIMEOUT", "10s")
	v.SetDefault("LOGIN_MIN_DELAY", "1s")
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("STORAGE_DRIVER", DriverFile)
	v.SetDefault("STORAGE_PATH", "~/.estatepro/state.json")
	v.SetDefault("STORAGE_TABLE", "client_state")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "estatepro:")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "console")
	v.SetDefault("MOCK_API_PORT", "8000")
	v.SetDefault("JWT_SECRET", "development_secret_key_change_in_production")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("APP_ENV", "production")
}

// expandHome раскрывает ~ в начале пути
func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
