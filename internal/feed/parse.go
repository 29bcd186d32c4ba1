package feed

import (
	"errors"
	"fmt"
	"io"

	"github.com/iabetor/feedparse/internal/logger"
	"github.com/iabetor/feedparse/internal/xmltree"
)

// Options 解析选项。零值即默认行为：提取正文。
type Options struct {
	// SkipContent 为 true 时不提取 RSS description 和 Atom summary/content。
	SkipContent bool
}

// Parse 使用默认选项解析订阅源文档。
func Parse(xmlText string) (*Feed, error) {
	return ParseWith(xmlText, Options{})
}

// ParseReader 读取 r 的全部内容后解析。
func ParseReader(r io.Reader, opts Options) (*Feed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取订阅源内容失败: %w", err)
	}
	return ParseWith(string(data), opts)
}

// ParseWith 解析订阅源文档，根据根元素选择 RSS 或 Atom。
//
// 错误可能是 *SyntaxError、ErrInvalidChannel 或 ErrUnsupportedFormat，
// 出错时不返回部分结果。声明了非 UTF-8 编码的文档，行列号按字符计算，
// 与转码前后无关。
func ParseWith(xmlText string, opts Options) (*Feed, error) {
	root, err := xmltree.Parse(xmlText)
	if err != nil {
		var se *xmltree.SyntaxError
		if errors.As(err, &se) {
			line, col := Locate(se.Source, int(se.Offset))
			return nil, &SyntaxError{Line: line, Column: col, Message: se.Msg}
		}
		return nil, err
	}
	if root == nil {
		logger.Debugf("[feed] 文档中没有根元素")
		return nil, ErrUnsupportedFormat
	}

	switch root.Name {
	case "rss":
		return parseRSS(root, opts)
	case "feed":
		return parseAtom(root, opts), nil
	default:
		logger.Debugf("[feed] 不支持的根元素 <%s>", root.Name)
		return nil, ErrUnsupportedFormat
	}
}
