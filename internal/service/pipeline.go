package service

import (
	"context"
	"log"
	"time"

	"github.com/LJTian/NewsRelay/internal/cache"
	"github.com/LJTian/NewsRelay/internal/news"
	"golang.org/x/sync/singleflight"
)

// defaultFlightTimeout 一次合并抓取的总时长上限，和单个调用方的请求生命周期无关
const defaultFlightTimeout = 2 * time.Minute

// Pipeline 缓存查询 + 同 key 合并抓取 + 成功后写回
type Pipeline struct {
	store   *cache.Store
	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration
}

func NewPipeline(store *cache.Store, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{store: store, now: now, timeout: defaultFlightTimeout}
}

type fetchFunc func(ctx context.Context) ([]news.Article, error)

// run 命中直接返回；未命中时同一 key 只有一个调用方真正抓取，
// 进入 flight 后再查一次缓存，避免刚写回的结果被重复抓取。
// 抓取不随发起者的 ctx 取消，发起者断开时其他等待者仍拿到结果
func (p *Pipeline) run(ctx context.Context, op, input string, b cache.Bucket, fetch fetchFunc) ([]news.Article, error) {
	key := cache.Key(op, input, b, p.now())
	if articles, ok := p.store.Get(ctx, key); ok {
		return articles, nil
	}

	ch := p.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		if articles, ok := p.store.Get(fctx, key); ok {
			return articles, nil
		}
		articles, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		if err := p.store.Put(fctx, key, articles); err != nil {
			log.Printf("%s: store %s: %v", op, key, err)
		}
		return articles, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			log.Printf("%s: %s served by a concurrent fetch", op, key)
		}
		return r.Val.([]news.Article), nil
	}
}
