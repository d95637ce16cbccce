package main

import (
	"log"

	"github.com/LJTian/NewsRelay/internal/api"
	"github.com/LJTian/NewsRelay/internal/app"
	"github.com/LJTian/NewsRelay/internal/config"
	"github.com/LJTian/NewsRelay/internal/scheduler"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	svc, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("init service failed: %v", err)
	}

	// 定时预热列表和常用分类；WARM_CRON_SPEC 为空则只按请求抓取
	if cfg.WarmCronSpec != "" {
		s, err := scheduler.New(cfg.WarmCronSpec, svc, cfg.WarmCategories)
		if err != nil {
			log.Fatalf("init scheduler failed: %v", err)
		}
		s.Start()
	}

	r := gin.Default()
	api.NewServer(svc).RegisterRoutes(r)
	// 头图等本地资源
	r.Static("/assets", cfg.AssetDir)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
