package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000/api/v1", cfg.APIURL)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, 5, cfg.MyPageSize)
	assert.Equal(t, time.Second, cfg.LoginMinDelay)
	assert.Equal(t, DriverMemory, cfg.StorageConfig.Driver)
	assert.False(t, cfg.CloudinaryConfig.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing api url", func(c *Config) { c.APIURL = "" }, "API_URL"},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "page size"},
		{"file without path", func(c *Config) { c.StorageConfig.Driver = DriverFile }, "STORAGE_PATH"},
		{"postgres without url", func(c *Config) { c.StorageConfig.Driver = DriverPostgres }, "DATABASE_URL"},
		{"redis without addr", func(c *Config) { c.StorageConfig.Driver = DriverRedis }, "REDIS_ADDR"},
		{"unknown driver", func(c *Config) { c.StorageConfig.Driver = "etcd" }, "etcd"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_URL", "http://api.example.com/api/v1/")
	t.Setenv("PAGE_SIZE", "12")
	t.Setenv("LOGIN_MIN_DELAY", "250ms")
	t.Setenv("STORAGE_DRIVER", "REDIS")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://api.example.com/api/v1", cfg.APIURL)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 5, cfg.MyPageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.LoginMinDelay)
	assert.Equal(t, DriverRedis, cfg.StorageConfig.Driver)
	assert.Equal(t, "localhost:6379", cfg.StorageConfig.RedisAddr)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PAGE_SIZE: 4\nSTORAGE_DRIVER: memory\n"), 0o600))
	t.Setenv("ESTATE_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.PageSize)
	assert.Equal(t, DriverMemory, cfg.StorageConfig.Driver)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".estatepro", "state.json"), expandHome("~/.estatepro/state.json"))
	assert.Equal(t, "/tmp/state.json", expandHome("/tmp/state.json"))
}

// chdir переходит в каталог на время теста
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
