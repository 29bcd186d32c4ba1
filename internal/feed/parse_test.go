package feed

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseUnsupportedFormat(t *testing.T) {
	for _, doc := range []string{
		`<foo><bar/></foo>`,
		`<rdf:RDF><channel/></rdf:RDF>`,
		``,
		`<?xml version="1.0"?><!-- nothing -->`,
	} {
		f, err := Parse(doc)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%q: 期望 ErrUnsupportedFormat，得到 %v", doc, err)
		}
		if f != nil {
			t.Errorf("%q: 出错时不应返回结果", doc)
		}
	}
}

func TestParseSyntaxErrorLocation(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		line   int
		column int
	}{
		{
			name:   "unclosed title on line 3",
			doc:    "<rss>\n<channel>\n<title>Broken</channel>\n</rss>",
			line:   3,
			column: 14,
		},
		{
			name:   "truncated document",
			doc:    "<rss>\n<channel>\n<title>abc",
			line:   3,
			column: 11,
		},
		{
			// 第 3 行 "<channel><title>" 共 16 个字符，加 4 个 é，</x> 在第 21 列
			name:   "iso-8859-1 document",
			doc:    "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<rss>\n<channel><title>\xe9\xe9\xe9\xe9</x>",
			line:   3,
			column: 21,
		},
		{
			name:   "stray closing tag",
			doc:    "<feed></feed></entry>",
			line:   1,
			column: 14,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse(tc.doc)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("期望 *SyntaxError，得到 %v", err)
			}
			if se.Line != tc.line || se.Column != tc.column {
				t.Errorf("位置 = %d:%d, 期望 %d:%d", se.Line, se.Column, tc.line, tc.column)
			}
			if se.Message == "" {
				t.Error("错误信息不应为空")
			}
			if !strings.HasPrefix(se.Error(), "第 ") {
				t.Errorf("错误文本格式不符: %s", se.Error())
			}
			if f != nil {
				t.Error("出错时不应返回部分结果")
			}
		})
	}
}

func TestParseSkipContent(t *testing.T) {
	for _, doc := range []string{testRSSFeed, testAtomFeed} {
		full, err := Parse(doc)
		if err != nil {
			t.Fatalf("Parse 失败: %v", err)
		}
		lean, err := ParseWith(doc, Options{SkipContent: true})
		if err != nil {
			t.Fatalf("ParseWith 失败: %v", err)
		}

		for i := range lean.Items {
			it := lean.Items[i]
			if it.Description.Present() || it.Summary.Present() || it.Content.Present() {
				t.Errorf("条目 %d: 不提取正文时 description/summary/content 应缺失", i)
			}
			// 清掉正文后其余字段应完全一致
			want := full.Items[i]
			want.Description, want.Summary, want.Content = Text{}, Text{}, Text{}
			if !reflect.DeepEqual(it, want) {
				t.Errorf("条目 %d: 其它字段不应受影响\n got  %#v\n want %#v", i, it, want)
			}
		}

		full.Items, lean.Items = nil, nil
		if !reflect.DeepEqual(full, lean) {
			t.Errorf("feed 级字段不应受影响: %#v vs %#v", full, lean)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	for _, doc := range []string{testRSSFeed, testAtomFeed} {
		a, err := Parse(doc)
		if err != nil {
			t.Fatalf("第一次解析失败: %v", err)
		}
		b, err := Parse(doc)
		if err != nil {
			t.Fatalf("第二次解析失败: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Error("同一文本两次解析结果应相同")
		}
	}
}

func TestParseReader(t *testing.T) {
	f, err := ParseReader(strings.NewReader(testAtomFeed), Options{SkipContent: true})
	if err != nil {
		t.Fatalf("ParseReader 失败: %v", err)
	}
	if f.Type != TypeAtom || len(f.Items) != 2 {
		t.Errorf("结果不符: %s, %d 条", f.Type, len(f.Items))
	}
	if f.Items[0].Summary.Present() {
		t.Error("选项应被传递")
	}
}

func TestFeedJSON(t *testing.T) {
	f, err := Parse(`<rss><channel><title></title><item><guid>g</guid></item></channel></rss>`)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal 失败: %v", err)
	}
	want := `{"type":"rss","title":"","items":[{"id":"g"}]}`
	if string(data) != want {
		t.Errorf("JSON = %s\n期望 %s", data, want)
	}

	atom, err := Parse(`<feed><entry/></feed>`)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	data, err = json.Marshal(atom)
	if err != nil {
		t.Fatalf("Marshal 失败: %v", err)
	}
	want = `{"type":"atom","items":[{"links":[]}]}`
	if string(data) != want {
		t.Errorf("JSON = %s\n期望 %s", data, want)
	}
}

func TestParseLenientEntities(t *testing.T) {
	f, err := Parse("<rss><channel><title>AT&T news</title><item><title>Q & A &unknown;</title></item></channel></rss>")
	if err != nil {
		t.Fatalf("未知实体不应导致解析失败: %v", err)
	}
	if f.Title != Some("AT&T news") {
		t.Errorf("标题不匹配: %s", f.Title)
	}
	if f.Items[0].Title != Some("Q & A &unknown;") {
		t.Errorf("条目标题不匹配: %s", f.Items[0].Title)
	}
}
