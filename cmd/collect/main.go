package main

import (
	"log"

	"github.com/LJTian/NewsRelay/internal/app"
	"github.com/LJTian/NewsRelay/internal/config"
	"github.com/LJTian/NewsRelay/internal/scheduler"
)

// 一个仅执行一次预热任务的命令行入口：适合手动刷新缓存
func main() {
	cfg := config.Load()

	svc, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("init service failed: %v", err)
	}

	spec := cfg.WarmCronSpec
	if spec == "" {
		spec = "@hourly"
	}
	s, err := scheduler.New(spec, svc, cfg.WarmCategories)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	// 只执行一轮后退出
	s.RunOnce()
}
