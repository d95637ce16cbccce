package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend 热缓存。TTL 只用来限制内存占用，过期靠 key 里的时间桶滚动
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

// DialRedis 创建客户端并做一次 ping；ping 失败只告警，Get 会退化为未命中
func DialRedis(addr string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}
	return rdb
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool) {
	bs, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("redis cache: get %s: %v", key, err)
		}
		return nil, false
	}
	return bs, true
}

func (r *RedisBackend) Put(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, key, payload, r.ttl).Err()
}
