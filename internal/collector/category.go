package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/processor"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxPages          = 3
	defaultEnrichConcurrency = 4
)

// CategoryBrowser 抓取标签/分类/搜索列表页，可选地逐篇补全作者和日期并按时间倒序
type CategoryBrowser struct {
	opts        Options
	maxPages    int
	enrich      bool
	concurrency int
	processor   *processor.SimpleProcessor
}

type BrowserOptions struct {
	MaxPages    int
	Enrich      bool
	Concurrency int
}

func NewCategoryBrowser(opts Options, bo BrowserOptions) *CategoryBrowser {
	if bo.MaxPages <= 0 {
		bo.MaxPages = defaultMaxPages
	}
	if bo.Concurrency <= 0 {
		bo.Concurrency = defaultEnrichConcurrency
	}
	return &CategoryBrowser{
		opts:        opts.withDefaults(),
		maxPages:    bo.MaxPages,
		enrich:      bo.Enrich,
		concurrency: bo.Concurrency,
		processor:   processor.NewSimpleProcessor(),
	}
}

// pathForm 一种列表地址写法，page 从 1 开始
type pathForm struct {
	name string
	url  func(page int) string
}

func (b *CategoryBrowser) listingForm(kind, slug string) pathForm {
	base := b.opts.BaseURL + "/" + kind + "/" + url.PathEscape(slug) + "/"
	return pathForm{
		name: kind,
		url: func(page int) string {
			if page <= 1 {
				return base
			}
			return base + "page/" + strconv.Itoa(page) + "/"
		},
	}
}

func (b *CategoryBrowser) searchForm(raw string) pathForm {
	q := "?s=" + url.QueryEscape(raw)
	return pathForm{
		name: "search",
		url: func(page int) string {
			if page <= 1 {
				return b.opts.BaseURL + "/" + q
			}
			return b.opts.BaseURL + "/page/" + strconv.Itoa(page) + "/" + q
		},
	}
}

// Browse 先试 tag/<slug>，为空再试 categoria/<slug>
func (b *CategoryBrowser) Browse(ctx context.Context, q news.Query) ([]news.Article, error) {
	if q.Blank() {
		return nil, news.ErrBlankQuery
	}
	return b.run(ctx, b.listingForm("tag", q.Slug), b.listingForm("categoria", q.Slug))
}

// Search 站内搜索，只有一种地址写法
func (b *CategoryBrowser) Search(ctx context.Context, q news.Query) ([]news.Article, error) {
	if q.Blank() {
		return nil, news.ErrBlankQuery
	}
	return b.run(ctx, b.searchForm(q.Raw))
}

type browseState int

const (
	tryPrimary browseState = iota
	tryFallback
	noResults
	done
)

// run 状态机：TryPrimaryPath → (空) → TryFallbackPath → (空) → NoResults
func (b *CategoryBrowser) run(ctx context.Context, primary pathForm, fallback ...pathForm) ([]news.Article, error) {
	var (
		teasers []news.Article
		err     error
	)

	state := tryPrimary
	for state != done {
		switch state {
		case tryPrimary:
			if teasers, err = b.walk(ctx, primary); err != nil {
				return nil, err
			}
			switch {
			case len(teasers) > 0:
				state = done
			case len(fallback) > 0:
				state = tryFallback
			default:
				state = noResults
			}
		case tryFallback:
			if teasers, err = b.walk(ctx, fallback[0]); err != nil {
				return nil, err
			}
			if len(teasers) > 0 {
				state = done
			} else {
				state = noResults
			}
		case noResults:
			return nil, fmt.Errorf("category: %w", news.ErrNoResults)
		}
	}

	if b.enrich {
		b.enrichAll(ctx, teasers)
		processor.SortByRecency(teasers)
	}
	return teasers, nil
}

// walk 逐页抓取直到空页或达到页数上限。首页失败（404 除外）返回 ErrUpstream，
// 后续页失败只停止翻页，保留已取得的结果
func (b *CategoryBrowser) walk(ctx context.Context, form pathForm) ([]news.Article, error) {
	var all []news.Article
	for page := 1; page <= b.maxPages; page++ {
		pageURL := form.url(page)
		doc, err := b.opts.visit(ctx, pageURL)
		if err != nil {
			if errors.Is(err, errPageNotFound) {
				break
			}
			if page == 1 {
				return nil, fmt.Errorf("category %s: %w", form.name, err)
			}
			log.Printf("category %s: stop at page %d: %v", form.name, page, err)
			break
		}

		found := extractTeasers(doc, pageURL)
		if len(found) == 0 {
			break
		}
		all = append(all, found...)
	}
	log.Printf("category %s: %d teasers", form.name, len(all))
	return b.processor.Process(all), nil
}

// extractTeasers 单个摘要块缺标题或链接时跳过
func extractTeasers(doc *goquery.Selection, pageURL string) []news.Article {
	var out []news.Article
	doc.Find(teaserBlockSelector).Each(func(_ int, block *goquery.Selection) {
		fields, err := Extract(block, teaserRules)
		if err != nil {
			return
		}
		title := fields.First(fieldTitle)
		if title == "" {
			title = fields.First(fieldLinkText)
		}
		link := resolve(pageURL, fields.First(fieldLink))
		if title == "" || link == "" {
			return
		}
		out = append(out, news.Article{
			Title:       title,
			Link:        link,
			Description: fields.First(fieldDesc),
		})
	})
	return out
}

// enrichAll 有限并发地抓取每篇文章页补全作者和日期；单篇失败不影响整体
func (b *CategoryBrowser) enrichAll(ctx context.Context, items []news.Article) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i := range items {
		link := items[i].Link
		if !sameHost(link, b.opts.BaseURL) {
			continue
		}
		g.Go(func() error {
			doc, err := b.opts.visit(gctx, link)
			if err != nil {
				log.Printf("category: enrich %s: %v", link, err)
				return nil
			}
			fields, _ := Extract(doc, metaRules)
			items[i].Author = fields.First(fieldAuthor)
			items[i].PubDate = localizedPubDate(fields.First(fieldDate), b.opts.Locale)
			return nil
		})
	}
	_ = g.Wait()
}
