package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/afriroots/afriroots-api/internal/config"
)

func TestRedis_PingAndClose(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	r := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	defer r.Close()

	assert.NoError(t, r.Ping(context.Background()))

	mr.Close()
	assert.Error(t, r.Ping(context.Background()))
}

func TestNilWrappers_PingFails(t *testing.T) {
	var r *Redis
	var p *Postgres
	var m *Mongo
	assert.Error(t, r.Ping(context.Background()))
	assert.Error(t, p.Ping(context.Background()))
	assert.Error(t, m.Ping(context.Background()))
	assert.Nil(t, p.PoolHandle())
}
