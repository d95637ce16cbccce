package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/LJTian/NewsRelay/internal/cache"
	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/processor"
)

// 渲染模板名，由外部渲染层解释
const (
	TemplateStories = "stories"
	TemplateStory   = "story"
	TemplateTags    = "tags"
	TemplateMessage = "message"
)

const minSearchRunes = 2

// Result 交给渲染层的结果
type Result struct {
	Template string         `json:"template"`
	Query    news.Query     `json:"query"`
	Articles []news.Article `json:"articles"`
	Images   []string       `json:"images"`
}

type FeedSource interface {
	Fetch(ctx context.Context) ([]news.Article, error)
}

type ArticleSource interface {
	ArticleURL(slugOrPath string) (string, error)
	FetchArticle(ctx context.Context, slugOrPath string) (news.Article, error)
}

type ListingSource interface {
	Browse(ctx context.Context, q news.Query) ([]news.Article, error)
	Search(ctx context.Context, q news.Query) ([]news.Article, error)
}

type Options struct {
	// FeedURL 作为列表缓存 key 的输入
	FeedURL string
	// LogoPath 每个结果都附带的站点 logo
	LogoPath string
}

// Service 四个操作共用一条 Pipeline
type Service struct {
	pipeline *Pipeline
	feed     FeedSource
	articles ArticleSource
	listings ListingSource
	opts     Options
}

func New(p *Pipeline, feed FeedSource, articles ArticleSource, listings ListingSource, opts Options) *Service {
	return &Service{
		pipeline: p,
		feed:     feed,
		articles: articles,
		listings: listings,
		opts:     opts,
	}
}

// Listing 最新新闻，按小时缓存
func (s *Service) Listing(ctx context.Context) (Result, error) {
	articles, err := s.pipeline.run(ctx, "listing", s.opts.FeedURL, cache.Hourly, s.feed.Fetch)
	if err != nil {
		return Result{}, err
	}
	return s.result(TemplateStories, news.Query{}, articles), nil
}

// Story 单篇文章；已发布文章不变，永久缓存
func (s *Service) Story(ctx context.Context, raw string) (Result, error) {
	q := news.NewQuery(raw)
	if q.Raw == "" {
		return Result{}, news.ErrBlankQuery
	}
	pageURL, err := s.articles.ArticleURL(q.Raw)
	if err != nil {
		return Result{}, err
	}

	articles, err := s.pipeline.run(ctx, "story", storyInput(pageURL), cache.Forever,
		func(ctx context.Context) ([]news.Article, error) {
			a, err := s.articles.FetchArticle(ctx, pageURL)
			if err != nil {
				return nil, err
			}
			return []news.Article{a}, nil
		})
	if err != nil {
		return Result{}, err
	}

	res := s.result(TemplateStory, q, articles)
	if len(articles) > 0 && articles[0].LeadImage != nil && articles[0].LeadImage.Asset != "" {
		res.Images = append([]string{articles[0].LeadImage.Asset}, res.Images...)
	}
	return res, nil
}

// storyInput slug、路径和完整 URL 指向同一篇文章时得到同一个输入
func storyInput(pageURL string) string {
	if u, err := url.Parse(pageURL); err == nil {
		return processor.CleanAlnum(u.Path)
	}
	return processor.CleanAlnum(pageURL)
}

// Category 标签/分类浏览，按天缓存
func (s *Service) Category(ctx context.Context, raw string) (Result, error) {
	q := news.NewQuery(raw)
	if q.Blank() {
		return Result{}, news.ErrBlankQuery
	}
	articles, err := s.pipeline.run(ctx, "category", q.Slug, cache.Daily,
		func(ctx context.Context) ([]news.Article, error) {
			return s.listings.Browse(ctx, q)
		})
	if err != nil {
		return Result{}, err
	}
	return s.result(TemplateTags, q, articles), nil
}

// Search 站内搜索，至少两个字符，按天缓存
func (s *Service) Search(ctx context.Context, raw string) (Result, error) {
	q := news.NewQuery(raw)
	if q.Blank() || utf8.RuneCountInString(q.Raw) < minSearchRunes {
		return Result{}, fmt.Errorf("search %q: %w", q.Raw, news.ErrBlankQuery)
	}
	articles, err := s.pipeline.run(ctx, "search", strings.ToLower(q.Raw), cache.Daily,
		func(ctx context.Context) ([]news.Article, error) {
			return s.listings.Search(ctx, q)
		})
	if err != nil {
		return Result{}, err
	}
	return s.result(TemplateTags, q, articles), nil
}

func (s *Service) result(template string, q news.Query, articles []news.Article) Result {
	res := Result{Template: template, Query: q, Articles: articles, Images: []string{}}
	if s.opts.LogoPath != "" {
		res.Images = append(res.Images, s.opts.LogoPath)
	}
	return res
}
