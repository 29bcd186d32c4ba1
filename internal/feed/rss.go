package feed

import "github.com/iabetor/feedparse/internal/xmltree"

// parseRSS 解析 <rss> 根元素。缺少 channel 时返回 ErrInvalidChannel。
func parseRSS(root *xmltree.Node, opts Options) (*Feed, error) {
	channel := root.Child("channel")
	if channel == nil {
		return nil, ErrInvalidChannel
	}

	f := &Feed{
		Type:        TypeRSS,
		Title:       readText(channel, "title"),
		Description: readText(channel, "description"),
		Link:        readText(channel, "link"),
		Author:      readText(channel, "author"),
	}

	nodes := channel.ChildrenNamed("item")
	f.Items = make([]Item, 0, len(nodes))
	for _, n := range nodes {
		f.Items = append(f.Items, rssItem(n, opts))
	}
	return f, nil
}

func rssItem(n *xmltree.Node, opts Options) Item {
	it := Item{
		ID:   readText(n, "guid"),
		Link: readText(n, "link"),
		Date: readText(n, "pubDate"),
	}
	// Dublin Core 的日期优先于 pubDate
	if d := readText(n, "dc:date"); d.Present() {
		it.Date = d
	}
	it.Title = readText(n, "title")
	it.Author = readText(n, "author")
	if !opts.SkipContent {
		it.Description = readText(n, "description")
	}
	return it
}
