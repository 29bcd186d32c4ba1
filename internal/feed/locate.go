package feed

// Locate 把字节偏移换算为从 1 开始的行号和列号。
// 列按字符计数；偏移超出文本时返回最后一个字符之后的位置。
func Locate(text string, offset int) (line, column int) {
	line, column = 1, 1
	for i, r := range text {
		if i >= offset {
			return line, column
		}
		if r == '\n' {
			line++
			column = 0
		}
		column++
	}
	return line, column
}
