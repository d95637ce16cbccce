package storage

import (
	"context"
	"log"
)

// Tiered L1 热缓存（redis）+ L2 持久层（postgres）；L2 命中时回填 L1
type Tiered struct {
	L1 Backend
	L2 Backend
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if bs, ok := t.L1.Get(ctx, key); ok {
		return bs, true
	}
	bs, ok := t.L2.Get(ctx, key)
	if !ok {
		return nil, false
	}
	if err := t.L1.Put(ctx, key, bs); err != nil {
		log.Printf("tiered cache: backfill %s: %v", key, err)
	}
	return bs, true
}

// Put 两层都写；L1 失败只记日志，L2 的错误返回给调用方
func (t *Tiered) Put(ctx context.Context, key string, payload []byte) error {
	if err := t.L1.Put(ctx, key, payload); err != nil {
		log.Printf("tiered cache: put L1 %s: %v", key, err)
	}
	return t.L2.Put(ctx, key, payload)
}
