package cache

import (
	"context"
	"log"

	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/storage"
)

// Store 面向文章列表的缓存，底层可插拔
type Store struct {
	backend storage.Backend
}

func New(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// Get 命中返回解码后的文章；后端错误或解码失败都当作未命中
func (s *Store) Get(ctx context.Context, key string) ([]news.Article, bool) {
	payload, ok := s.backend.Get(ctx, key)
	if !ok {
		return nil, false
	}
	articles, err := Decode(payload)
	if err != nil {
		log.Printf("cache: %s treated as miss: %v", key, err)
		return nil, false
	}
	return articles, true
}

func (s *Store) Put(ctx context.Context, key string, articles []news.Article) error {
	payload, err := Encode(articles)
	if err != nil {
		return err
	}
	return s.backend.Put(ctx, key, payload)
}
