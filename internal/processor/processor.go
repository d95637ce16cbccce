package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"slices"
	"strings"
	"unicode"

	"github.com/LJTian/NewsRelay/internal/news"
)

// SimpleProcessor 做最基础的清洗：去空白、丢弃无标题条目、按链接去重
type SimpleProcessor struct{}

func NewSimpleProcessor() *SimpleProcessor {
	return &SimpleProcessor{}
}

func (p *SimpleProcessor) Process(items []news.Article) []news.Article {
	out := make([]news.Article, 0, len(items))
	seen := make(map[string]struct{})

	for _, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		it.Link = strings.TrimSpace(it.Link)
		if it.Title == "" {
			continue
		}
		// 没有链接的条目按标题去重
		id := HashKey(it.Link)
		if it.Link == "" {
			id = HashKey("title:" + it.Title)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, it)
	}

	return out
}

// SortByRecency 按发布时间倒序；日期未知的排在最后并保持原顺序
func SortByRecency(items []news.Article) {
	slices.SortStableFunc(items, func(a, b news.Article) int {
		at, bt := a.PubDate.Time, b.PubDate.Time
		switch {
		case at == nil && bt == nil:
			return 0
		case at == nil:
			return 1
		case bt == nil:
			return -1
		}
		return bt.Compare(*at)
	})
}

// HashKey 生成稳定的十六进制摘要，用于缓存 key 和去重
func HashKey(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// CleanAlnum 只保留 ASCII 字母数字，用于把文章路径/URL 归一成缓存输入
func CleanAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, s)
}
