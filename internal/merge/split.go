package merge

import "bytes"

// ScanLines 为 bufio.SplitFunc：\n、\r\n 与单独的 \r 都视为行结束，结束符不计入行内容。
// 末尾无结束符的行照常产出；结尾的结束符之后不会多出空行。
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// \r 位于缓冲末尾：需要下一字节才能区分 \r 与 \r\n
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
