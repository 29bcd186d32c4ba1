package subscription

import (
	"strings"

	"github.com/mozillazg/go-pinyin"
)

var pinyinArgs = pinyin.NewArgs()

// spell 把名字转成小写全拼和首字母两种形式，非汉字原样保留。
func spell(s string) (full, initials string) {
	var fb, ib strings.Builder
	for _, r := range strings.ToLower(s) {
		py := pinyin.LazyPinyin(string(r), pinyinArgs)
		if len(py) == 0 || py[0] == "" {
			if r == ' ' {
				continue
			}
			fb.WriteRune(r)
			ib.WriteRune(r)
			continue
		}
		fb.WriteString(py[0])
		ib.WriteByte(py[0][0])
	}
	return fb.String(), ib.String()
}

// matchName 名字是否匹配查询：不区分大小写的子串，或拼音全拼/首字母子串。
func matchName(name, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(name), q) {
		return true
	}
	q = strings.ReplaceAll(q, " ", "")
	full, initials := spell(name)
	return strings.Contains(full, q) || strings.Contains(initials, q)
}
