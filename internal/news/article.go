package news

import (
	"strings"
	"time"

	"github.com/LJTian/NewsRelay/internal/textnorm"
)

// Article 统一的文章结构，列表、详情、分类共用
type Article struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	PubDate     PubDate    `json:"pubDate"`
	Description string     `json:"description,omitempty"`
	Intro       string     `json:"intro,omitempty"`
	Category    []string   `json:"category,omitempty"`
	Author      string     `json:"author"`
	LeadImage   *LeadImage `json:"leadImage,omitempty"`
	// 只有详情页才有正文段落
	Content []string `json:"content,omitempty"`
}

// PubDate 展示用字符串 + 可比较的时间；时间解析失败时 Time 为 nil
type PubDate struct {
	Display string     `json:"display"`
	Time    *time.Time `json:"timestamp,omitempty"`
}

// LeadImage 文章头图：源地址、本地资源路径、alt 文本
type LeadImage struct {
	Source string `json:"source"`
	Asset  string `json:"asset,omitempty"`
	Alt    string `json:"alt,omitempty"`
}

// NewPubDate 用 locale 格式化时间
func NewPubDate(t time.Time, l textnorm.Locale) PubDate {
	if l.Location != nil {
		t = t.In(l.Location)
	}
	return PubDate{Display: textnorm.FormatLocalized(t, l), Time: &t}
}

// Query 用户输入及其 slug；slug 同时用作上游 URL 路径片段和缓存 key 输入
type Query struct {
	Raw  string `json:"raw"`
	Slug string `json:"slug"`
}

// NewQuery 规范化用户输入
func NewQuery(raw string) Query {
	raw = strings.TrimSpace(raw)
	return Query{Raw: raw, Slug: textnorm.Slugify(raw)}
}

// Blank 输入为空或规范化后为空
func (q Query) Blank() bool {
	return q.Raw == "" || q.Slug == ""
}
