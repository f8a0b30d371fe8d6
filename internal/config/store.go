package config

import (
	"github.com/grigi/workstate/pkg/adapters/file"
	"github.com/grigi/workstate/pkg/adapters/memory"
	"github.com/grigi/workstate/pkg/adapters/redis"
	"github.com/grigi/workstate/pkg/ports"
)

// OpenStore creates the configured snapshot store. The returned close
// function releases backend connections and is never nil.
func (c Config) OpenStore() (ports.SnapshotStore, func() error, error) {
	noop := func() error { return nil }

	switch c.Store {
	case StoreFile:
		return file.NewStore(c.SnapshotDir), noop, nil
	case StoreRedis:
		s := redis.New(c.RedisAddr, c.RedisPassword, c.RedisDB, redis.WithTTL(c.SnapshotTTL))
		return s, s.Close, nil
	case StoreMemory, "":
		return memory.NewStore(), noop, nil
	}
	return nil, noop, c.Validate()
}
