package feed

import "github.com/iabetor/feedparse/internal/xmltree"

// parseAtom 解析 <feed> 根元素。
func parseAtom(root *xmltree.Node, opts Options) *Feed {
	f := &Feed{
		Type:   TypeAtom,
		Title:  readText(root, "title"),
		ID:     readText(root, "id"),
		Author: atomAuthor(root),
	}
	if link := root.Child("link"); link != nil {
		f.Link = attrText(link, "href")
	}

	nodes := root.ChildrenNamed("entry")
	f.Items = make([]Item, 0, len(nodes))
	for _, n := range nodes {
		f.Items = append(f.Items, atomEntry(n, opts))
	}
	return f
}

func atomEntry(n *xmltree.Node, opts Options) Item {
	it := Item{ID: readText(n, "id")}

	linkNodes := n.ChildrenNamed("link")
	it.Links = make([]Link, 0, len(linkNodes))
	for _, ln := range linkNodes {
		it.Links = append(it.Links, atomLink(ln))
	}

	it.Title = readText(n, "title")
	it.Date = readText(n, "published")
	if u := readText(n, "updated"); u.Present() {
		it.Date = u
	}
	it.Author = atomAuthor(n)
	if !opts.SkipContent {
		it.Summary = readText(n, "summary")
		it.Content = readText(n, "content")
	}
	return it
}

func atomLink(n *xmltree.Node) Link {
	l := Link{
		Rel:      attrText(n, "rel"),
		Href:     attrText(n, "href"),
		Type:     attrText(n, "type"),
		Hreflang: attrText(n, "hreflang"),
		Title:    attrText(n, "title"),
		Length:   attrText(n, "length"),
	}
	// 不符合规范，但有的源写成 <link>http://example.com</link>
	if s, ok := n.Text(); ok {
		l.Text = Some(s)
	}
	return l
}

// atomAuthor 读取 author；结构化的 <author><name>..</name></author> 取 name 的文本。
func atomAuthor(parent *xmltree.Node) Text {
	author := parent.Child("author")
	if author == nil {
		return Text{}
	}
	if s, ok := author.Text(); ok {
		return Some(s)
	}
	if name := author.Child("name"); name != nil {
		s, _ := name.Text()
		return Some(s)
	}
	return Some("")
}
