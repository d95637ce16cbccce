package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/textnorm"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 5 << 20 // 5MB，页面和图片共用上限
	defaultUserAgent    = "NewsRelayBot/1.0"
	// DescriptionBudget 列表摘要的展示长度
	DescriptionBudget = 160
)

// Options 上游站点访问参数，三个采集组件共用
type Options struct {
	BaseURL      string
	FeedURL      string
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	Locale       textnorm.Locale
}

func (o Options) withDefaults() Options {
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	if o.Locale.Months == nil {
		o.Locale = textnorm.Spanish()
	}
	return o
}

// errPageNotFound 上游 404；分类页里当作空页，文章页里当作文章不存在
var errPageNotFound = errors.New("page not found")

// ctxTransport 让 colly 的请求也能随 ctx 取消
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(r.WithContext(t.ctx))
}

// visit 抓取一个 HTML 页面，返回 <html> 节点供选择器查询
func (o Options) visit(ctx context.Context, pageURL string) (*goquery.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", news.ErrUpstream, pageURL, err)
	}

	c := colly.NewCollector(
		colly.UserAgent(o.UserAgent),
		colly.MaxBodySize(int(o.MaxBodyBytes)),
	)
	c.SetRequestTimeout(o.Timeout)
	c.WithTransport(ctxTransport{ctx: ctx, base: http.DefaultTransport})

	var (
		doc    *goquery.Selection
		status int
	)
	c.OnHTML("html", func(e *colly.HTMLElement) {
		if doc == nil {
			doc = e.DOM
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(pageURL); err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", errPageNotFound, pageURL)
		}
		return nil, fmt.Errorf("%w: visit %s: %v", news.ErrUpstream, pageURL, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s returned no html document", news.ErrUpstream, pageURL)
	}
	return doc, nil
}

// httpGet 直接 GET，用于 RSS 和图片这类非 HTML 资源
func (o Options) httpGet(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request %s: %v", news.ErrUpstream, rawURL, err)
	}
	req.Header.Set("User-Agent", o.UserAgent)

	client := &http.Client{Timeout: o.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", news.ErrUpstream, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: get %s: unexpected status %d", news.ErrUpstream, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, o.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", news.ErrUpstream, rawURL, err)
	}
	return body, nil
}

// resolve 把相对链接补全为绝对地址
func resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// sameHost 只允许访问上游站点本身，避免把任意 URL 交给抓取器
func sameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	if ua.Scheme != "http" && ua.Scheme != "https" {
		return false
	}
	host := func(u *url.URL) string {
		return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	}
	return host(ua) == host(ub)
}
