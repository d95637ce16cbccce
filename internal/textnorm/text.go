package textnorm

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis 截断后追加的标记
const Ellipsis = "..."

var strictPolicy = bluemonday.StrictPolicy()

// StripAndDecode 去掉 HTML 标签、解码实体、合并空白
func StripAndDecode(s string) string {
	s = strictPolicy.Sanitize(s)
	// bluemonday 会把 & 等重新编码，源站 RSS 里还常见二次编码（&amp;amp;），解到稳定为止
	for i := 0; i < 3; i++ {
		dec := html.UnescapeString(s)
		if dec == s {
			break
		}
		s = dec
	}
	return CollapseSpace(s)
}

// CollapseSpace 把连续空白（含 nbsp）压成一个空格并去掉首尾空白
func CollapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ' '
	}), " ")
}

// TruncateWordSafe 按 rune 截断到 max，不切断单词，截断时追加省略号。
// 前 max 个字符内没有空格时只能硬截断。
func TruncateWordSafe(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}

	cut := rs[:max]
	if rs[max-1] != ' ' {
		for i := max - 1; i > 0; i-- {
			if cut[i] == ' ' {
				cut = cut[:i]
				break
			}
		}
	}
	return strings.TrimRight(string(cut), " ") + Ellipsis
}

// 无法通过 NFD 分解去掉变音符的拉丁字母
var foldTable = map[rune]string{
	'Æ': "a", 'æ': "a",
	'Ð': "d", 'ð': "d",
	'Ø': "o", 'ø': "o",
	'Þ': "b", 'þ': "b",
	'ß': "s", 'ẞ': "s",
	'Œ': "o", 'œ': "o",
	'Ł': "l", 'ł': "l",
	'Đ': "d", 'đ': "d",
	'ı': "i",
}

// FoldDiacritics 把带重音的拉丁字符折叠成基础字母：á→a, ñ→n, ç→c, ü→u
func FoldDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := foldTable[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, b.String())
	if err != nil {
		return b.String()
	}
	return out
}

// Slugify 生成 URL 路径片段：小写、折叠重音、空白转连字符。
// 先小写再折叠，小写后才可折叠的字符（如 ẞ→ß）也能一次处理完，结果幂等。
func Slugify(s string) string {
	s = FoldDiacritics(strings.ToLower(s))
	return strings.Join(strings.Fields(s), "-")
}
