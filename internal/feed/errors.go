package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChannel rss 根元素下没有 channel。
	ErrInvalidChannel = errors.New("无效的 RSS channel")
	// ErrUnsupportedFormat 根元素既不是 rss 也不是 feed。
	ErrUnsupportedFormat = errors.New("不支持的订阅源格式")
)

// SyntaxError XML 语法错误，行列号均从 1 开始。
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("第 %d 行第 %d 列: %s", e.Line, e.Column, e.Message)
}
