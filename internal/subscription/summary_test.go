package subscription

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>Hello <b>World</b></p>", "Hello World"},
		{"plain text", "plain text"},
		{"&amp; &lt; &gt; &quot;", "& < > \""},
		{"<div>  多个   空格  </div>", "多个 空格"},
		{"<p>one</p><p>two</p>", "one two"},
		{"a<br/>b", "a b"},
		{"<script>alert(1)</script>text<style>p{}</style>", "text"},
		{"", ""},
	}

	for _, tc := range tests {
		got := stripHTML(tc.input)
		if got != tc.expected {
			t.Errorf("stripHTML(%q) = %q, 期望 %q", tc.input, got, tc.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	short := "短文本"
	if got := truncate(short, 200); got != short {
		t.Errorf("短文本不应被截断: %s", got)
	}

	long := ""
	for i := 0; i < 50; i++ {
		long += "这是一段很长的文字"
	}
	got := truncate(long, 200)
	// 200 字符 + "..." = 203 runes
	if n := len([]rune(got)); n != 203 {
		t.Errorf("截断后长度应为 203 rune，实际 %d", n)
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"Atom Blog", "atom", true},
		{"Atom Blog", "  BLOG ", true},
		{"36氪", "36ke", true},
		{"36氪", "36k", true},
		{"少数派", "shao shu", true},
		{"少数派", "xyz", false},
		{"Atom Blog", "", false},
	}
	for _, tc := range tests {
		if got := matchName(tc.name, tc.query); got != tc.want {
			t.Errorf("matchName(%q, %q) = %v, 期望 %v", tc.name, tc.query, got, tc.want)
		}
	}
}
