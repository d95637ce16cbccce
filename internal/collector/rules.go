package collector

import (
	"fmt"
	"strings"

	"github.com/LJTian/NewsRelay/internal/textnorm"
	"github.com/PuerkitoBio/goquery"
)

// Rule 声明式抽取规则：字段 → 选择器 → 属性/文本 → 变换。
// 页面改版时只会让某条规则取不到值，失败点集中在这里，便于测试。
type Rule struct {
	Field     string
	Selector  string
	Attr      string // 为空时取文本
	All       bool   // 取所有匹配节点，否则只取第一个
	Required  bool
	Transform func(string) string
}

// Extracted 抽取结果；未匹配的可选字段不出现
type Extracted map[string][]string

// First 字段的第一个值
func (e Extracted) First(field string) string {
	if vs := e[field]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// MissingFieldError 必填字段未匹配
type MissingFieldError struct {
	Field    string
	Selector string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %s not found (selector %q)", e.Field, e.Selector)
}

// Extract 在 root 下按规则逐条求值
func Extract(root *goquery.Selection, rules []Rule) (Extracted, error) {
	out := make(Extracted, len(rules))
	for _, r := range rules {
		sel := root.Find(r.Selector)
		if !r.All {
			sel = sel.First()
		}

		var values []string
		sel.Each(func(_ int, s *goquery.Selection) {
			v := ""
			if r.Attr != "" {
				v, _ = s.Attr(r.Attr)
			} else {
				v = s.Text()
			}
			v = strings.TrimSpace(v)
			if r.Transform != nil {
				v = r.Transform(v)
			}
			if v != "" {
				values = append(values, v)
			}
		})

		if len(values) == 0 {
			if r.Required {
				return nil, &MissingFieldError{Field: r.Field, Selector: r.Selector}
			}
			continue
		}
		out[r.Field] = values
	}
	return out, nil
}

// 常用变换

func summary(s string) string {
	return textnorm.CollapseSpace(textnorm.TruncateWordSafe(textnorm.StripAndDecode(s), DescriptionBudget))
}

var permalinkPrefixes = []string{"Vínculo Permanente a ", "Permanent link to ", "Enlace permanente a "}

func trimPermalink(s string) string {
	for _, p := range permalinkPrefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(strings.TrimPrefix(s, p))
		}
	}
	return s
}

// 文章详情页
const (
	fieldTitle    = "title"
	fieldIntro    = "intro"
	fieldImageSrc = "image_src"
	fieldImageAlt = "image_alt"
	fieldBody     = "body"
	fieldAuthor   = "author"
	fieldDate     = "date"
	fieldLink     = "link"
	fieldLinkText = "link_text"
	fieldDesc     = "description"
)

var (
	authorRule = Rule{Field: fieldAuthor, Selector: ".entry-author a, .author a, .entry-author", Transform: textnorm.CollapseSpace}
	dateRule   = Rule{Field: fieldDate, Selector: "time.entry-date, .entry-date, .post-date", Transform: textnorm.CollapseSpace}
)

var articleRules = []Rule{
	{Field: fieldTitle, Selector: "header h1.entry-title", Required: true, Transform: textnorm.CollapseSpace},
	{Field: fieldIntro, Selector: "header div>p", Transform: summary},
	{Field: fieldImageSrc, Selector: "figure img.size-full", Attr: "src"},
	{Field: fieldImageAlt, Selector: "figure img.size-full", Attr: "alt"},
	{Field: fieldBody, Selector: "div.entry-content p", All: true},
	authorRule,
	dateRule,
}

// 分类页中每个摘要块内部
const teaserBlockSelector = ".grid_elements, .post-box"

var teaserRules = []Rule{
	{Field: fieldTitle, Selector: "h2 > a", Attr: "title", Transform: trimPermalink},
	{Field: fieldLinkText, Selector: "h2 > a", Transform: textnorm.CollapseSpace},
	{Field: fieldLink, Selector: "h2 > a", Attr: "href"},
	{Field: fieldDesc, Selector: ".content_wrapper, .entry-content, p", Transform: summary},
}

// 补全分类结果时只需要作者和日期
var metaRules = []Rule{authorRule, dateRule}
