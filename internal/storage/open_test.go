package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/config"
)

func TestOpen(t *testing.T) {
	s, err := Open(config.StorageConfig{Driver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	assert.NoError(t, Close(s))

	s, err = Open(config.StorageConfig{Driver: config.DriverFile, Path: filepath.Join(t.TempDir(), "s.json")}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(config.StorageConfig{Driver: "etcd"}, zap.NewNop())
	assert.Error(t, err)
}
