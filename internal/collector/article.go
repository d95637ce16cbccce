package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/storage"
	"github.com/LJTian/NewsRelay/internal/textnorm"
)

// PageExtractor 抓取单篇文章详情页，按 articleRules 抽取字段并尽力下载头图
type PageExtractor struct {
	opts   Options
	assets storage.AssetStore
}

// NewPageExtractor assets 为 nil 时不下载头图，只保留源地址
func NewPageExtractor(opts Options, assets storage.AssetStore) *PageExtractor {
	return &PageExtractor{opts: opts.withDefaults(), assets: assets}
}

// ArticleURL 把 slug、路径或站内绝对 URL 统一成文章地址；站外地址视为文章不存在
func (p *PageExtractor) ArticleURL(slugOrPath string) (string, error) {
	s := strings.TrimSpace(slugOrPath)
	if s == "" {
		return "", news.ErrBlankQuery
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if !sameHost(s, p.opts.BaseURL) {
			return "", fmt.Errorf("%w: %s is not on the upstream site", news.ErrArticleNotFound, s)
		}
		return s, nil
	}
	if strings.HasPrefix(s, "/") {
		return p.opts.BaseURL + s, nil
	}
	return p.opts.BaseURL + "/" + strings.Trim(s, "/") + "/", nil
}

func (p *PageExtractor) FetchArticle(ctx context.Context, slugOrPath string) (news.Article, error) {
	pageURL, err := p.ArticleURL(slugOrPath)
	if err != nil {
		return news.Article{}, err
	}

	log.Printf("fetch article %s...", pageURL)
	doc, err := p.opts.visit(ctx, pageURL)
	if err != nil {
		if errors.Is(err, errPageNotFound) {
			return news.Article{}, fmt.Errorf("article: %w: %v", news.ErrArticleNotFound, err)
		}
		return news.Article{}, fmt.Errorf("article: %w", err)
	}

	fields, err := Extract(doc, articleRules)
	if err != nil {
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			return news.Article{}, fmt.Errorf("article %s: %w: %v", pageURL, news.ErrArticleNotFound, err)
		}
		return news.Article{}, fmt.Errorf("article %s: %w", pageURL, err)
	}

	a := news.Article{
		Title:   fields.First(fieldTitle),
		Link:    pageURL,
		Intro:   fields.First(fieldIntro),
		Author:  fields.First(fieldAuthor),
		Content: fields[fieldBody],
	}
	if a.Content == nil {
		a.Content = []string{}
	}
	a.PubDate = localizedPubDate(fields.First(fieldDate), p.opts.Locale)

	if src := fields.First(fieldImageSrc); src != "" {
		a.LeadImage = p.leadImage(ctx, resolve(pageURL, src), fields.First(fieldImageAlt))
	}
	return a, nil
}

// leadImage 下载失败时返回 nil，不影响文章本身
func (p *PageExtractor) leadImage(ctx context.Context, src, alt string) *news.LeadImage {
	img := &news.LeadImage{Source: src, Alt: alt}
	if p.assets == nil {
		return img
	}

	data, err := p.opts.httpGet(ctx, src)
	if err != nil {
		log.Printf("article: download image %s: %v", src, err)
		return nil
	}
	asset, err := p.assets.Save(ctx, data, imageExt(src))
	if err != nil {
		log.Printf("article: save image %s: %v", src, err)
		return nil
	}
	img.Asset = asset
	return img
}

func imageExt(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}

// localizedPubDate 日期解析失败时只保留原文，时间为空
func localizedPubDate(raw string, l textnorm.Locale) news.PubDate {
	if raw == "" {
		return news.PubDate{}
	}
	t, err := textnorm.ParseLocalizedDate(raw, l)
	if err != nil {
		return news.PubDate{Display: raw}
	}
	return news.PubDate{Display: raw, Time: &t}
}
