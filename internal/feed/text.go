package feed

import (
	"encoding/json"

	"github.com/iabetor/feedparse/internal/xmltree"
)

// Text 三态可选文本。
// 零值表示字段缺失；Some("") 表示元素存在但没有文本；Some(s) 表示元素存在且有文本。
type Text struct {
	value string
	valid bool
}

// Some 构造一个存在的文本值。
func Some(s string) Text {
	return Text{value: s, valid: true}
}

// Get 返回文本及其是否存在。
func (t Text) Get() (string, bool) {
	return t.value, t.valid
}

// Present 字段是否存在（包括空文本）。
func (t Text) Present() bool { return t.valid }

// Value 返回文本，缺失时为空串。
func (t Text) Value() string { return t.value }

// IsZero 供 json 的 omitzero 使用，缺失时为 true。
func (t Text) IsZero() bool { return !t.valid }

func (t Text) String() string {
	if !t.valid {
		return "<absent>"
	}
	return t.value
}

// MarshalJSON 缺失输出 null，存在输出字符串（空文本为 ""）。
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON null 还原为缺失。
func (t *Text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Text{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Some(s)
	return nil
}

// readText 读取 parent 下第一个名为 name 的子元素的文本。
func readText(parent *xmltree.Node, name string) Text {
	child := parent.Child(name)
	if child == nil {
		return Text{}
	}
	s, _ := child.Text()
	return Some(s)
}

// attrText 读取属性；属性不存在时为缺失。
func attrText(n *xmltree.Node, name string) Text {
	v, ok := n.Attr(name)
	if !ok {
		return Text{}
	}
	return Some(v)
}
