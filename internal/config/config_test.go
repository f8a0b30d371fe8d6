package config

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grigi/workstate/pkg/adapters/file"
	"github.com/grigi/workstate/pkg/adapters/memory"
	"github.com/grigi/workstate/pkg/adapters/redis"
	"github.com/grigi/workstate/pkg/graph"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, ".workstate/snapshots", cfg.SnapshotDir)
	assert.Zero(t, cfg.SnapshotTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("WORKSTATE_DIR", "/models")
	t.Setenv("WORKSTATE_STORE", "redis")
	t.Setenv("WORKSTATE_SNAPSHOT_TTL", "1h")
	t.Setenv("WORKSTATE_REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/models", cfg.Dir)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, time.Hour, cfg.SnapshotTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown store", func(t *testing.T) {
		t.Setenv("WORKSTATE_STORE", "s3")
		_, err := Load()
		assert.ErrorContains(t, err, `unknown store "s3"`)
	})
	t.Run("bad number", func(t *testing.T) {
		t.Setenv("WORKSTATE_REDIS_DB", "zero")
		_, err := Load()
		assert.ErrorContains(t, err, "parse env")
	})
}

func TestOpenStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, closeFn, err := Config{Store: StoreMemory}.OpenStore()
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, s)
		assert.NoError(t, closeFn())
	})

	t.Run("file", func(t *testing.T) {
		s, _, err := Config{Store: StoreFile, SnapshotDir: t.TempDir()}.OpenStore()
		require.NoError(t, err)
		assert.IsType(t, &file.Store{}, s)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, closeFn, err := Config{Store: StoreRedis, RedisAddr: mr.Addr()}.OpenStore()
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, s)
		defer closeFn()

		ctx := context.Background()
		require.NoError(t, s.Save(ctx, &graph.Snapshot{Name: "m", Valid: true}))
		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"m"}, names)
	})

	t.Run("unknown", func(t *testing.T) {
		_, closeFn, err := Config{Store: "tape"}.OpenStore()
		assert.Error(t, err)
		assert.NotNil(t, closeFn)
	})
}
