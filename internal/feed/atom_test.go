package feed

import (
	"reflect"
	"testing"
)

const testAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Blog</title>
  <id>urn:uuid:60a76c80-d399-11d9-b93c-0003939e0af6</id>
  <link href="https://example.com/" rel="alternate"/>
  <link href="https://example.com/feed.atom" rel="self"/>
  <author>
    <name>Bob</name>
  </author>
  <entry>
    <id>entry-1</id>
    <title>Atom 文章</title>
    <link rel="alternate" href="https://example.com/atom/1" type="text/html" hreflang="zh" title="网页" length="1024"/>
    <link rel="enclosure" href="https://example.com/atom/1.mp3"/>
    <link>https://example.com/atom/1/text</link>
    <published>2026-02-19T08:00:00+08:00</published>
    <updated>2026-02-19T09:00:00+08:00</updated>
    <author>carol</author>
    <summary>Atom 格式的摘要</summary>
    <content type="html">&lt;p&gt;正文&lt;/p&gt;</content>
  </entry>
  <entry>
    <title>只有发布时间</title>
    <published>2026-02-18T08:00:00+08:00</published>
  </entry>
</feed>`

func TestParseAtomFeed(t *testing.T) {
	f, err := Parse(testAtomFeed)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if f.Type != TypeAtom {
		t.Fatalf("类型应为 atom，实际 %s", f.Type)
	}
	if f.Title != Some("Atom Blog") {
		t.Errorf("标题不匹配: %s", f.Title)
	}
	if f.ID != Some("urn:uuid:60a76c80-d399-11d9-b93c-0003939e0af6") {
		t.Errorf("id 不匹配: %s", f.ID)
	}
	if f.Link != Some("https://example.com/") {
		t.Errorf("feed 的 link 应取第一个 link 的 href: %s", f.Link)
	}
	if f.Author != Some("Bob") {
		t.Errorf("结构化作者应取 name: %s", f.Author)
	}
	if f.Description.Present() {
		t.Error("Atom 不应有 description")
	}
	if len(f.Items) != 2 {
		t.Fatalf("期望 2 个条目，得到 %d 个", len(f.Items))
	}
}

func TestParseAtomLinks(t *testing.T) {
	f, err := Parse(testAtomFeed)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}

	want := []Link{
		{
			Rel:      Some("alternate"),
			Href:     Some("https://example.com/atom/1"),
			Type:     Some("text/html"),
			Hreflang: Some("zh"),
			Title:    Some("网页"),
			Length:   Some("1024"),
		},
		{Rel: Some("enclosure"), Href: Some("https://example.com/atom/1.mp3")},
		{Text: Some("https://example.com/atom/1/text")},
	}
	if got := f.Items[0].Links; !reflect.DeepEqual(got, want) {
		t.Errorf("links 不匹配:\n got  %#v\n want %#v", got, want)
	}

	second := f.Items[1]
	if second.Links == nil || len(second.Links) != 0 {
		t.Errorf("没有 link 的条目应为空切片，实际 %#v", second.Links)
	}
}

func TestParseAtomEntryFields(t *testing.T) {
	f, err := Parse(testAtomFeed)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	it := f.Items[0]
	if it.ID != Some("entry-1") {
		t.Errorf("id 不匹配: %s", it.ID)
	}
	if it.Title != Some("Atom 文章") {
		t.Errorf("标题不匹配: %s", it.Title)
	}
	if it.Date != Some("2026-02-19T09:00:00+08:00") {
		t.Errorf("updated 应覆盖 published，实际 %s", it.Date)
	}
	if it.Author != Some("carol") {
		t.Errorf("作者不匹配: %s", it.Author)
	}
	if it.Summary != Some("Atom 格式的摘要") {
		t.Errorf("摘要不匹配: %s", it.Summary)
	}
	if it.Content != Some("<p>正文</p>") {
		t.Errorf("正文不匹配: %s", it.Content)
	}
	if it.Link.Present() || it.Description.Present() {
		t.Error("Atom 条目不应使用 link/description 字段")
	}

	if got := f.Items[1].Date; got != Some("2026-02-18T08:00:00+08:00") {
		t.Errorf("只有 published 时应使用它，实际 %s", got)
	}
	if f.Items[1].ID.Present() {
		t.Error("缺少 id 元素时字段应缺失")
	}
}

func TestParseAtomFeedLinkWithoutHref(t *testing.T) {
	doc := `<feed><link>https://example.com/</link><link href="https://example.com/second"/></feed>`
	f, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if f.Link.Present() {
		t.Errorf("第一个 link 没有 href 时 feed 的 link 应缺失，实际 %s", f.Link)
	}
}

func TestParseAtomEmptyFeed(t *testing.T) {
	f, err := Parse(`<feed/>`)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if f.Type != TypeAtom {
		t.Errorf("类型应为 atom，实际 %s", f.Type)
	}
	if f.Items == nil || len(f.Items) != 0 {
		t.Errorf("items 应为空切片，实际 %#v", f.Items)
	}
}

func TestParseAtomEmptyAuthor(t *testing.T) {
	f, err := Parse(`<feed><entry><author></author></entry><entry><author><email>a@b</email></author></entry></feed>`)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	for i, it := range f.Items {
		if s, ok := it.Author.Get(); !ok || s != "" {
			t.Errorf("条目 %d: 作者应为存在的空串，实际 (%q, %v)", i, s, ok)
		}
	}
}

func TestItemURL(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{"rss", Item{Link: Some(" https://a/1 ")}, "https://a/1"},
		{"atom alternate", Item{Links: []Link{
			{Rel: Some("self"), Href: Some("https://a/self")},
			{Rel: Some("alternate"), Href: Some("https://a/alt")},
		}}, "https://a/alt"},
		{"atom no rel", Item{Links: []Link{{Href: Some("https://a/plain")}}}, "https://a/plain"},
		{"atom any href", Item{Links: []Link{{Rel: Some("related"), Href: Some("https://a/rel")}}}, "https://a/rel"},
		{"atom text", Item{Links: []Link{{Text: Some("https://a/text")}}}, "https://a/text"},
		{"none", Item{Links: []Link{}}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.item.URL(); got != tc.want {
				t.Errorf("URL() = %q, 期望 %q", got, tc.want)
			}
		})
	}
}
