package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/infrastructure/config"
)

func TestNewMigrator_UnreachableDatabase(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "yoquet",
		Password: "yoquet",
		DBName:   "yoquet",
		SSLMode:  "disable",
	}

	m, err := NewMigrator(cfg, "../../../migrations", zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "migration driver")
}
