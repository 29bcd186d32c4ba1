// Package xmltree 把 XML 文本构建成一棵只含元素节点的轻量树。
//
// 解析不做命名空间解析：带前缀的名字（如 dc:date）按字面保留。
// 也不做 Schema/DTD 校验，只要求标签正确闭合。无法识别的实体
// （如 AT&T 中的 &T）原样保留在文本里。
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Attr 元素属性，Name 为字面名（含前缀）。
type Attr struct {
	Name  string
	Value string
}

// Node 元素节点。
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node

	text    string
	hasText bool
}

// SyntaxError 表示 XML 语法错误。
//
// Offset 是出错位置在 Source 中的字节偏移。文档按非 UTF-8 编码声明转码时，
// Source 是转码后的文本（至少覆盖到出错位置），否则就是输入本身。
type SyntaxError struct {
	Offset int64
	Msg    string
	Source string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xml 语法错误 (offset %d): %s", e.Offset, e.Msg)
}

// Child 返回第一个名为 name 的子元素，不存在时返回 nil。
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed 按文档顺序返回所有名为 name 的子元素。
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Attr 查找属性值。
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Text 返回元素自身的文本：直接位于元素内、且不全是空白的第一段字符数据。
func (n *Node) Text() (string, bool) {
	return n.text, n.hasText
}

// Parse 解析 text 并返回第一个顶层元素。文档中没有任何元素时返回 (nil, nil)。
func Parse(text string) (*Node, error) {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = false
	d.Entity = xml.HTMLEntity

	// 转码之后 InputOffset 计的是转码结果的字节，这里把转码结果留一份用于定位
	var (
		converted bool
		prefix    int64
		decoded   bytes.Buffer
	)
	d.CharsetReader = func(label string, in io.Reader) (io.Reader, error) {
		r, err := charset.NewReaderLabel(label, in)
		if err != nil {
			return nil, err
		}
		converted = true
		prefix = d.InputOffset()
		return io.TeeReader(r, &decoded), nil
	}
	fail := func(offset int64, msg string) error {
		src := text
		if converted {
			src = text[:prefix] + decoded.String()
		}
		return &SyntaxError{Offset: offset, Msg: msg, Source: src}
	}

	var (
		root  *Node
		stack []*Node
	)
	for {
		start := d.InputOffset()
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return nil, fail(d.InputOffset(),
					fmt.Sprintf("输入意外结束，元素 <%s> 未闭合", stack[len(stack)-1].Name))
			}
			return root, nil
		}
		if err != nil {
			return nil, fail(d.InputOffset(), syntaxMessage(err))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: literalName(t.Name)}
			if len(t.Attr) > 0 {
				n.Attrs = make([]Attr, 0, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs = append(n.Attrs, Attr{Name: literalName(a.Name), Value: a.Value})
				}
			}
			if len(stack) == 0 {
				if root == nil {
					root = n
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			name := literalName(t.Name)
			if len(stack) == 0 {
				return nil, fail(start, fmt.Sprintf("多余的结束标签 </%s>", name))
			}
			top := stack[len(stack)-1]
			if top.Name != name {
				return nil, fail(start, fmt.Sprintf("期望 </%s>，实际为 </%s>", top.Name, name))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if !top.hasText && !isBlank(t) {
				top.text = string(t)
				top.hasText = true
			}
		}
	}
}

func syntaxMessage(err error) string {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return se.Msg
	}
	return err.Error()
}

func literalName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func isBlank(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
