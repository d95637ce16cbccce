package collector

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/processor"
	"github.com/LJTian/NewsRelay/internal/textnorm"
	"github.com/mmcdole/gofeed"
)

// fetchrss 镜像会在摘要里加这句水印
const feedBoilerplate = "(Feed generated with FetchRSS)"

// FeedFetcher 拉取上游 RSS 并转换成文章列表
type FeedFetcher struct {
	opts      Options
	parser    *gofeed.Parser
	processor *processor.SimpleProcessor
}

func NewFeedFetcher(opts Options) *FeedFetcher {
	return &FeedFetcher{
		opts:      opts.withDefaults(),
		parser:    gofeed.NewParser(),
		processor: processor.NewSimpleProcessor(),
	}
}

// Fetch 网络错误/非 2xx 返回 ErrUpstream；XML 无法解析或没有条目返回 ErrUpstreamUnavailable
func (f *FeedFetcher) Fetch(ctx context.Context) ([]news.Article, error) {
	log.Println("fetch news feed...")

	body, err := f.opts.httpGet(ctx, f.opts.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}

	feed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feed: %w: parse: %v", news.ErrUpstreamUnavailable, err)
	}

	articles := make([]news.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, f.toArticle(item))
	}
	articles = f.processor.Process(articles)

	if len(articles) == 0 {
		return nil, fmt.Errorf("feed: %w: no items", news.ErrUpstreamUnavailable)
	}
	log.Printf("feed done, items=%d", len(articles))
	return articles, nil
}

func (f *FeedFetcher) toArticle(item *gofeed.Item) news.Article {
	desc := textnorm.StripAndDecode(item.Description)
	desc = textnorm.CollapseSpace(strings.ReplaceAll(desc, feedBoilerplate, ""))
	desc = textnorm.TruncateWordSafe(desc, DescriptionBudget)

	a := news.Article{
		Title:       textnorm.StripAndDecode(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: desc,
		Author:      feedAuthor(item),
		Category:    make([]string, 0, len(item.Categories)),
	}

	for _, c := range item.Categories {
		if c = textnorm.StripAndDecode(c); c != "" {
			a.Category = append(a.Category, c)
		}
	}

	switch {
	case item.PublishedParsed != nil:
		a.PubDate = news.NewPubDate(*item.PublishedParsed, f.opts.Locale)
	case item.UpdatedParsed != nil:
		a.PubDate = news.NewPubDate(*item.UpdatedParsed, f.opts.Locale)
	default:
		a.PubDate = news.PubDate{Display: strings.TrimSpace(item.Published)}
	}
	return a
}

// feedAuthor 依次取 author、authors、dc:creator，都没有则为空
func feedAuthor(item *gofeed.Item) string {
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return textnorm.StripAndDecode(item.Author.Name)
	}
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return textnorm.StripAndDecode(p.Name)
		}
	}
	if item.DublinCoreExt != nil {
		for _, c := range item.DublinCoreExt.Creator {
			if c = strings.TrimSpace(c); c != "" {
				return textnorm.StripAndDecode(c)
			}
		}
	}
	return ""
}
