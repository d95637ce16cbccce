package news

import "errors"

// 对外可见的错误分类，其余内部错误只降级数据、不向上传播
var (
	ErrBlankQuery          = errors.New("blank query")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrArticleNotFound     = errors.New("article not found")
	ErrNoResults           = errors.New("no results")
	ErrUpstream            = errors.New("upstream error")
)

// Kind 错误分类，供渲染层选择提示文案
type Kind string

const (
	KindNone                Kind = ""
	KindBlankQuery          Kind = "blank_query"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindArticleNotFound     Kind = "article_not_found"
	KindNoResults           Kind = "no_results"
	KindUpstream            Kind = "upstream_error"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrBlankQuery, KindBlankQuery},
	{ErrUpstreamUnavailable, KindUpstreamUnavailable},
	{ErrArticleNotFound, KindArticleNotFound},
	{ErrNoResults, KindNoResults},
	{ErrUpstream, KindUpstream},
}

// KindOf 返回 err 所属分类；未归类的错误按上游错误处理
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUpstream
}
