package feed

import (
	"strings"
	"time"
)

// 订阅源中常见的日期格式，RSS 多为 RFC 822/1123，Atom 与 dc:date 为 RFC 3339。
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// PublishedAt 尽力解析条目的 date 字段。
func (it Item) PublishedAt() (time.Time, bool) {
	raw, ok := it.Date.Get()
	if !ok {
		return time.Time{}, false
	}
	return parseDate(raw)
}

func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
