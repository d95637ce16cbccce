package app

import (
	"fmt"

	"github.com/LJTian/NewsRelay/internal/cache"
	"github.com/LJTian/NewsRelay/internal/collector"
	"github.com/LJTian/NewsRelay/internal/config"
	"github.com/LJTian/NewsRelay/internal/service"
	"github.com/LJTian/NewsRelay/internal/storage"
)

// Build 按配置组装缓存、采集组件和编排层，cmd/api 与 cmd/collect 共用
func Build(cfg *config.Config) (*service.Service, error) {
	backend, err := storage.Open(storage.Options{
		Kind:        cfg.CacheBackend,
		Dir:         cfg.CacheDir,
		RedisAddr:   cfg.RedisAddr,
		RedisTTL:    cfg.RedisTTL,
		PostgresDSN: cfg.PostgresDSN,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache backend: %w", err)
	}

	assets, err := storage.NewFileAssets(cfg.AssetDir)
	if err != nil {
		return nil, fmt.Errorf("open asset dir: %w", err)
	}

	opts := collector.Options{
		BaseURL:   cfg.UpstreamBaseURL,
		FeedURL:   cfg.FeedURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
	}
	browser := collector.NewCategoryBrowser(opts, collector.BrowserOptions{
		MaxPages:    cfg.CategoryMaxPages,
		Enrich:      cfg.CategoryEnrich,
		Concurrency: cfg.EnrichConcurrency,
	})

	pipeline := service.NewPipeline(cache.New(backend), config.Now)
	return service.New(
		pipeline,
		collector.NewFeedFetcher(opts),
		collector.NewPageExtractor(opts, assets),
		browser,
		service.Options{FeedURL: cfg.FeedURL, LogoPath: cfg.LogoPath},
	), nil
}
