// Package feed 把 RSS 2.0 与 Atom 1.0 文档统一解析成同一种结构。
package feed

import "strings"

// Type 订阅源格式。
type Type string

const (
	TypeRSS  Type = "rss"
	TypeAtom Type = "atom"
)

// Feed 统一后的订阅源。
//
// ID 只来自 Atom，Description 只来自 RSS。
// Link 对 RSS 是 channel 的 link 文本，对 Atom 是第一个 link 元素的 href。
type Feed struct {
	Type        Type   `json:"type"`
	Title       Text   `json:"title,omitzero"`
	ID          Text   `json:"id,omitzero"`
	Link        Text   `json:"link,omitzero"`
	Description Text   `json:"description,omitzero"`
	Author      Text   `json:"author,omitzero"`
	Items       []Item `json:"items"`
}

// Item 条目。RSS 条目使用 Link 与 Description；
// Atom 条目使用 Links、Summary 与 Content，且 Links 恒不为 nil。
type Item struct {
	ID          Text   `json:"id,omitzero"`
	Link        Text   `json:"link,omitzero"`
	Links       []Link `json:"links,omitzero"`
	Title       Text   `json:"title,omitzero"`
	Date        Text   `json:"date,omitzero"`
	Author      Text   `json:"author,omitzero"`
	Description Text   `json:"description,omitzero"`
	Summary     Text   `json:"summary,omitzero"`
	Content     Text   `json:"content,omitzero"`
}

// Link Atom 的 link 元素。Text 是元素自身的文本，
// 用于兼容把地址写在 <link>...</link> 里而不是 href 属性里的源。
type Link struct {
	Rel      Text `json:"rel,omitzero"`
	Href     Text `json:"href,omitzero"`
	Type     Text `json:"type,omitzero"`
	Hreflang Text `json:"hreflang,omitzero"`
	Title    Text `json:"title,omitzero"`
	Length   Text `json:"length,omitzero"`
	Text     Text `json:"text,omitzero"`
}

// URL 返回条目最合适的文章地址，没有时为空串。
// Atom 优先取 rel 缺省或为 alternate 的 href。
func (it Item) URL() string {
	if it.Link.Present() {
		return strings.TrimSpace(it.Link.Value())
	}
	for _, l := range it.Links {
		rel := l.Rel.Value()
		if l.Href.Present() && (!l.Rel.Present() || rel == "alternate") {
			return strings.TrimSpace(l.Href.Value())
		}
	}
	for _, l := range it.Links {
		if l.Href.Present() {
			return strings.TrimSpace(l.Href.Value())
		}
	}
	if len(it.Links) > 0 {
		return strings.TrimSpace(it.Links[0].Text.Value())
	}
	return ""
}
