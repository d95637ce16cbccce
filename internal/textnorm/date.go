package textnorm

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Locale 描述一种语言的日期写法，显式传参，不依赖进程级 locale
type Locale struct {
	Months     map[string]time.Month
	Weekdays   map[time.Weekday]string
	Connectors []string // 例如 "de"
	AM, PM     []string
	Location   *time.Location
}

// 源站所在时区（古巴），加载失败时退回固定 UTC-5
var locHavana *time.Location

func init() {
	locHavana, _ = time.LoadLocation("America/Havana")
	if locHavana == nil {
		locHavana = time.FixedZone("CST", -5*3600)
	}
}

// Spanish 源站使用的西班牙语日期格式
func Spanish() Locale {
	return Locale{
		Months: map[string]time.Month{
			"enero": time.January, "febrero": time.February, "marzo": time.March,
			"abril": time.April, "mayo": time.May, "junio": time.June,
			"julio": time.July, "agosto": time.August,
			"septiembre": time.September, "setiembre": time.September,
			"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
		},
		Weekdays: map[time.Weekday]string{
			time.Monday: "lunes", time.Tuesday: "martes", time.Wednesday: "miércoles",
			time.Thursday: "jueves", time.Friday: "viernes", time.Saturday: "sábado",
			time.Sunday: "domingo",
		},
		Connectors: []string{"de", "del"},
		AM:         []string{"am", "a.m.", "a.m", "a. m."},
		PM:         []string{"pm", "p.m.", "p.m", "p. m."},
		Location:   locHavana,
	}
}

// DateParseError 日期结构无法识别；调用方按“日期未知”处理
type DateParseError struct {
	Raw    string
	Reason string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parse localized date %q: %s", e.Raw, e.Reason)
}

// ParseLocalizedDate 解析 "15 de marzo de 2021 | 10:30 am" 一类的日期，
// 兼容逗号/竖线分隔、开头的星期、a.m./p.m. 写法以及缺省的时间部分。
func ParseLocalizedDate(raw string, l Locale) (time.Time, error) {
	fail := func(reason string) (time.Time, error) {
		return time.Time{}, &DateParseError{Raw: raw, Reason: reason}
	}

	s := strings.ToLower(CollapseSpace(raw))
	if s == "" {
		return fail("empty")
	}

	// 先把多词的 am/pm 写法归一，避免被分隔符拆开
	meridiem := ""
	for _, m := range []struct {
		variants []string
		mark     string
	}{{l.PM, "pm"}, {l.AM, "am"}} {
		for _, v := range m.variants {
			if strings.Contains(v, " ") || strings.Contains(v, ".") {
				s = strings.ReplaceAll(s, v, " "+m.mark+" ")
			}
		}
	}
	s = strings.NewReplacer("|", " ", ",", " ", "/", " ").Replace(s)

	tokens := strings.Fields(s)
	weekdays := make(map[string]bool, len(l.Weekdays)*2)
	for _, w := range l.Weekdays {
		weekdays[w] = true
		weekdays[FoldDiacritics(w)] = true
	}
	connectors := make(map[string]bool, len(l.Connectors))
	for _, c := range l.Connectors {
		connectors[c] = true
	}

	var parts []string
	for i, tok := range tokens {
		if connectors[tok] {
			continue
		}
		if i == 0 && weekdays[tok] {
			continue
		}
		switch {
		case contains(l.AM, tok) || tok == "am":
			meridiem = "am"
			continue
		case contains(l.PM, tok) || tok == "pm":
			meridiem = "pm"
			continue
		}
		// 形如 10:30am
		for _, m := range []string{"am", "pm"} {
			if strings.HasSuffix(tok, m) && strings.Contains(tok, ":") {
				tok = strings.TrimSuffix(tok, m)
				meridiem = m
			}
		}
		parts = append(parts, tok)
	}

	if len(parts) != 3 && len(parts) != 4 {
		return fail("unexpected token count")
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return fail("bad day")
	}
	month, ok := l.Months[parts[1]]
	if !ok {
		month, ok = l.Months[FoldDiacritics(parts[1])]
	}
	if !ok {
		return fail("unknown month " + parts[1])
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 1000 {
		return fail("bad year")
	}

	hour, minute := 0, 0
	if len(parts) == 4 {
		hm := strings.SplitN(parts[3], ":", 2)
		if len(hm) != 2 {
			return fail("bad time")
		}
		if hour, err = strconv.Atoi(hm[0]); err != nil {
			return fail("bad hour")
		}
		if minute, err = strconv.Atoi(hm[1]); err != nil || minute < 0 || minute > 59 {
			return fail("bad minute")
		}
		switch meridiem {
		case "am", "pm":
			if hour < 1 || hour > 12 {
				return fail("bad 12h hour")
			}
			hour %= 12
			if meridiem == "pm" {
				hour += 12
			}
		default:
			if hour < 0 || hour > 23 {
				return fail("bad hour")
			}
		}
	} else if meridiem != "" {
		return fail("meridiem without time")
	}

	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Day() != day {
		return fail("day out of range for month")
	}
	return t, nil
}

// FormatLocalized 输出 "lunes, 15 de marzo de 2021 | 10:30 am"，可被 ParseLocalizedDate 解析回来
func FormatLocalized(t time.Time, l Locale) string {
	if l.Location != nil {
		t = t.In(l.Location)
	}
	monthName := ""
	for name, m := range l.Months {
		// setiembre 只是别名，输出时用 septiembre
		if m == t.Month() && (monthName == "" || len(name) > len(monthName)) {
			monthName = name
		}
	}

	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	mark := "am"
	if t.Hour() >= 12 {
		mark = "pm"
	}

	return fmt.Sprintf("%s, %d de %s de %d | %d:%02d %s",
		l.Weekdays[t.Weekday()], t.Day(), monthName, t.Year(), hour, t.Minute(), mark)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
