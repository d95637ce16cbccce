package storage

import (
	"fmt"
	"time"
)

// Options 缓存后端选择
type Options struct {
	Kind        string // memory / file / redis / postgres / tiered
	Dir         string
	RedisAddr   string
	RedisTTL    time.Duration
	PostgresDSN string
}

// Open 按配置创建缓存后端
func Open(opts Options) (Backend, error) {
	switch opts.Kind {
	case "", "memory":
		return NewMemoryBackend(), nil
	case "file":
		return NewFileBackend(opts.Dir)
	case "redis":
		return NewRedisBackend(DialRedis(opts.RedisAddr), opts.RedisTTL), nil
	case "postgres":
		return OpenPostgres(opts.PostgresDSN)
	case "tiered":
		pg, err := OpenPostgres(opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &Tiered{
			L1: NewRedisBackend(DialRedis(opts.RedisAddr), opts.RedisTTL),
			L2: pg,
		}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Kind)
	}
}
