// internal/common/database/redis_test.go
package database

import (
	"context"
	"testing"

	"claims-portal/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := OpenRedis(context.Background(), config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Client().Set(context.Background(), "flash:x", "1", 0).Err())
	assert.True(t, mr.Exists("flash:x"))
}

func TestPing_ReportsAddressWhenDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	r := NewRedis(config.RedisConfig{Address: addr})
	defer r.Close()

	mr.Close()

	err := r.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)

	_, err = OpenRedis(context.Background(), config.RedisConfig{Address: addr})
	assert.Error(t, err)
}
