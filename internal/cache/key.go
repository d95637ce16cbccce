package cache

import (
	"fmt"
	"time"

	"github.com/LJTian/NewsRelay/internal/processor"
)

// Bucket 缓存时间粒度；桶变化即 key 变化，旧条目自然弃用
type Bucket int

const (
	// Hourly 列表 RSS，更新频繁
	Hourly Bucket = iota
	// Daily 分类/搜索页，变化慢
	Daily
	// Forever 已发布文章内容不再变化
	Forever
)

// Label 返回 t 所在桶的标识
func (b Bucket) Label(t time.Time) string {
	switch b {
	case Hourly:
		return t.UTC().Format("2006010215")
	case Daily:
		return t.UTC().Format("20060102")
	default:
		return "all"
	}
}

func (b Bucket) String() string {
	switch b {
	case Hourly:
		return "hourly"
	case Daily:
		return "daily"
	default:
		return "forever"
	}
}

// Key 生成 "{operation}:{sha1(input)}:{bucket}"；相同输入在同一个桶内总是同一个 key
func Key(op, input string, b Bucket, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", op, processor.HashKey(input), b.Label(now))
}
