package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/LJTian/NewsRelay/internal/service"
	"github.com/robfig/cron/v3"
)

// Warmer 预热时调用的操作，和请求路径走同一套缓存
type Warmer interface {
	Listing(ctx context.Context) (service.Result, error)
	Category(ctx context.Context, raw string) (service.Result, error)
}

type Scheduler struct {
	cron       *cron.Cron
	warmer     Warmer
	categories []string
	timeout    time.Duration
}

const defaultJobTimeout = 2 * time.Minute

func New(spec string, w Warmer, categories []string) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:       c,
		warmer:     w,
		categories: categories,
		timeout:    defaultJobTimeout,
	}

	_, err := c.AddFunc(spec, s.runOnce)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟首轮预热，避免和启动后的第一批请求争抢上游
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

// Stop 等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发预热
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start warm job...")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := s.warmer.Listing(ctx)
		if err != nil {
			log.Printf("warm listing error: %v", err)
			return
		}
		log.Printf("warm listing done, %d articles", len(res.Articles))
	}()

	for _, name := range s.categories {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.warmer.Category(ctx, name)
			if err != nil {
				log.Printf("warm category %s error: %v", name, err)
				return
			}
			log.Printf("warm category %s done, %d articles", name, len(res.Articles))
		}()
	}

	wg.Wait()
	log.Println("warm job done")
}
